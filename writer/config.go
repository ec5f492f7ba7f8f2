package writer

import (
	"time"

	"github.com/TheBearodactyl/boundbook/format"
	"github.com/TheBearodactyl/boundbook/internal/options"
	"go.uber.org/zap"
)

// Config holds the writer's allocator parameters and ambient settings.
// It is built from functional options applied in Open.
type Config struct {
	AlignExp            uint8
	ReamExp             uint8
	VariableRream       bool
	Timestamp           time.Time
	StrictMetadataScope bool
	Logger              *zap.SugaredLogger
}

func newDefaultConfig() *Config {
	return &Config{
		AlignExp:  format.DefaultAlignmentExponent,
		ReamExp:   format.DefaultReamExponent,
		Timestamp: time.Now(),
		Logger:    zap.NewNop().Sugar(),
	}
}

// Option configures a Writer at Open time.
type Option = options.Option[*Config]

// WithAlignment sets the alignment exponent a (valid range 0..=30).
func WithAlignment(exp uint8) Option {
	return options.NoError(func(c *Config) { c.AlignExp = exp })
}

// WithReamExponent sets the nominal ream exponent r (valid range a..=40).
func WithReamExponent(exp uint8) Option {
	return options.NoError(func(c *Config) { c.ReamExp = exp })
}

// WithVariableRream toggles per-asset ream promotion.
func WithVariableRream(enabled bool) Option {
	return options.NoError(func(c *Config) { c.VariableRream = enabled })
}

// WithTimestamp overrides the creation timestamp embedded in the header.
// Required for the canonical-form property: two writers must be given
// the same timestamp to produce byte-identical output.
func WithTimestamp(ts time.Time) Option {
	return options.NoError(func(c *Config) { c.Timestamp = ts })
}

// WithStrictMetadataScope enables whole-file metadata key uniqueness
// instead of the default per-parent scope.
func WithStrictMetadataScope(enabled bool) Option {
	return options.NoError(func(c *Config) { c.StrictMetadataScope = enabled })
}

// WithLogger attaches a structured logger for debug-level state-transition
// events. No log statement is load-bearing.
func WithLogger(log *zap.SugaredLogger) Option {
	return options.NoError(func(c *Config) {
		if log != nil {
			c.Logger = log
		}
	})
}
