package metagraph

import "log/slog"

// config holds construction-time settings shared by every generator in
// this package (mirrors prim.Option's functional-options shape).
type config struct {
	logger *slog.Logger
}

// Option configures a meta-graph generator at construction time.
type Option func(*config)

// WithLogger enables debug logging for Generate operations.
//
// Pass nil to disable logging (the default).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func newConfig(opts []Option) config {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
