package segment

import "log/slog"

const (
	DefaultXMin          = 1
	DefaultXMax          = 2000
	DefaultPaddingFactor = 0.6
)

// Config controls the geometric heuristics of the pipeline.
type Config struct {
	XMin          int
	XMax          int
	PaddingFactor float64
	// LegacyCorner builds the third corner of the padded band as
	// (bottom.YMax, bottom.YMax), matching corpora produced by the older
	// segmenter.
	LegacyCorner bool
	// StrictGeometry fails on vertical line edges instead of treating them
	// as horizontal.
	StrictGeometry bool
	// Round rounds extrapolated Y values to whole pixels.
	Round  bool
	Logger *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		XMin:          DefaultXMin,
		XMax:          DefaultXMax,
		PaddingFactor: DefaultPaddingFactor,
	}
}

func newConfig(opts []Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func WithXRange(xMin, xMax int) Option {
	return func(c *Config) {
		c.XMin = xMin
		c.XMax = xMax
	}
}

func WithPaddingFactor(f float64) Option {
	return func(c *Config) { c.PaddingFactor = f }
}

func WithLegacyCorner(enabled bool) Option {
	return func(c *Config) { c.LegacyCorner = enabled }
}

func WithStrictGeometry(enabled bool) Option {
	return func(c *Config) { c.StrictGeometry = enabled }
}

func WithRounding(enabled bool) Option {
	return func(c *Config) { c.Round = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithConfig replaces the whole configuration, keeping the logger if cfg has none.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		l := c.Logger
		*c = cfg
		if c.Logger == nil {
			c.Logger = l
		}
	}
}
