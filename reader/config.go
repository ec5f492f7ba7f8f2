package reader

import (
	"github.com/TheBearodactyl/boundbook/internal/options"
	"go.uber.org/zap"
)

// Config holds reader-side ambient settings. Unlike the writer, a reader
// has no allocator parameters of its own: every layout field comes from
// the file's own header.
type Config struct {
	StrictMetadataScope bool
	Logger              *zap.SugaredLogger
}

func newDefaultConfig() *Config {
	return &Config{Logger: zap.NewNop().Sugar()}
}

// Option configures a Reader at Open time.
type Option = options.Option[*Config]

// WithStrictMetadataScope must match the value the writer used to
// produce the file, so the index model's structural validation agrees
// with how the file was actually authored.
func WithStrictMetadataScope(enabled bool) Option {
	return options.NoError(func(c *Config) { c.StrictMetadataScope = enabled })
}

// WithLogger attaches a structured logger for debug-level events.
func WithLogger(log *zap.SugaredLogger) Option {
	return options.NoError(func(c *Config) {
		if log != nil {
			c.Logger = log
		}
	})
}
