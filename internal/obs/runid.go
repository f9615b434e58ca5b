package obs

import "github.com/google/uuid"

// NewRunID mints a fresh run identity for log correlation: a random UUID.
// It is the default run identity of [github.com/gradforge/gradforge/env.GlobalEnv]
// (replaceable via WithRunID) and of
// [github.com/gradforge/gradforge/grad.Transformer], which adds it as the
// "run_id" trace attribute of every Transform.
//
// NewRunID has no relation to alpha-freshness (§4.1): it identifies an
// invocation, not a Symbol, and is never used as part of a Symbol's
// label.
func NewRunID() string {
	return uuid.NewString()
}
