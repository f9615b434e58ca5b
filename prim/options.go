package prim

import "log/slog"

// Option configures a [Registry].
type Option func(*config)

// config holds internal configuration for a Registry.
type config struct {
	logger *slog.Logger
}

// WithLogger enables debug logging for registry operations: gradient
// factory construction, memoization hits, and lookup failures.
//
// Pass nil to disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}
