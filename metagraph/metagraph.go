package metagraph

import (
	"sync"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/immutable"
	"github.com/gradforge/gradforge/ir"
)

// MetaGraph is a polymorphic operator that synthesizes a Lambda per
// argument signature (§4.3).
type MetaGraph interface {
	// Name identifies the generator for error messages and debugging.
	Name() string

	// NormalizeArgs erases values the generator is insensitive to.
	// Default behaviour (broadening away literals) lives in
	// [Broaden]; generators that set infer_value skip it.
	NormalizeArgs(args []abstract.Value) []abstract.Value

	// Generate returns the Lambda for the normalized signature,
	// memoized by signature identity (§4.3 Caching).
	Generate(args []abstract.Value) (*ir.Lambda, error)
}

// Broaden is the default NormalizeArgs behaviour: broaden every argument,
// erasing retained literals (§4.3: "broadens away literal values unless
// infer_value is set").
func Broaden(args []abstract.Value) []abstract.Value {
	out := make([]abstract.Value, len(args))
	for i, a := range args {
		out[i] = a.Broaden()
	}
	return out
}

// cache memoizes generated Lambdas by [abstract.CacheKey], shared by every
// concrete generator in this package (§4.3: "cache hits return the
// previously built Graph verbatim").
type cache struct {
	mu      sync.Mutex
	entries map[string]*ir.Lambda
}

func newCache() *cache {
	return &cache{entries: make(map[string]*ir.Lambda)}
}

func (c *cache) get(key immutable.Key) (*ir.Lambda, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lambda, ok := c.entries[key.String()]
	return lambda, ok
}

func (c *cache) put(key immutable.Key, lambda *ir.Lambda) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = lambda
}
