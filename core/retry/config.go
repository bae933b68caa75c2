package retry

import "time"

// Config holds the retry settings for remote calls.
type Config struct {
	// MaxAttempts is the attempt ceiling per operation.
	MaxAttempts int `mapstructure:"max_attempts" default:"4"`
	// InitialBackoffMs is the first wait in milliseconds.
	InitialBackoffMs int `mapstructure:"initial_backoff_ms" default:"500"`
	// MaxBackoffMs caps the wait in milliseconds.
	MaxBackoffMs int `mapstructure:"max_backoff_ms" default:"8000"`
	// Multiplier grows the wait after each failure.
	Multiplier float64 `mapstructure:"multiplier" default:"2"`
}

// Policy builds a Policy from the configuration, falling back to Default for unset values.
func (c Config) Policy() Policy {
	p := Default()
	if c.MaxAttempts > 0 {
		p.MaxAttempts = c.MaxAttempts
	}
	if c.InitialBackoffMs > 0 {
		p.InitialBackoff = time.Duration(c.InitialBackoffMs) * time.Millisecond
	}
	if c.MaxBackoffMs > 0 {
		p.MaxBackoff = time.Duration(c.MaxBackoffMs) * time.Millisecond
	}
	if c.Multiplier >= 1 {
		p.Multiplier = c.Multiplier
	}
	return p
}
