package tween

import "time"

// Config holds the local engine settings.
type Config struct {
	FrameRate float64       `yaml:"frameRate"`
	Duration  time.Duration `yaml:"duration"`
	Easing    string        `yaml:"easing"`
}

// DefaultConfig is used for any zero field. A negative Duration makes every
// transition without its own duration render only its final frame.
var DefaultConfig = Config{
	FrameRate: 30,
	Duration:  500 * time.Millisecond,
	Easing:    "in-out-quad",
}

func (c Config) withDefaults() Config {
	if c.FrameRate == 0 {
		c.FrameRate = DefaultConfig.FrameRate
	}
	if c.Duration == 0 {
		c.Duration = DefaultConfig.Duration
	}
	if c.Easing == "" {
		c.Easing = DefaultConfig.Easing
	}
	return c
}
