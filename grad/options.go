package grad

import "log/slog"

// config holds Transformer construction-time settings assembled from
// Option values (mirrors prim.Option's functional-options shape).
type config struct {
	logger *slog.Logger
}

// Option configures a Transformer at construction time.
type Option func(*config)

// WithLogger enables debug logging for Transform operations.
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
