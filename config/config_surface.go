package config

import (
	"time"
)

// SurfaceConfig tunes candidate discovery and the trigger summary.
type SurfaceConfig struct {
	MinWidth  float64
	MinHeight float64

	SummaryTimeout time.Duration
}

type surfaceConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	Summary string `yaml:"summary"`
}

func (cfg *Config) registerSurface(f *configFile) error {
	if f.Surface.IsZero() {
		return nil
	}

	var config surfaceConfig

	if err := f.Surface.Decode(&config); err != nil {
		return err
	}

	summary, err := parseDuration(config.Summary, 0)

	if err != nil {
		return err
	}

	cfg.Surface = SurfaceConfig{
		MinWidth:  config.Width,
		MinHeight: config.Height,

		SummaryTimeout: summary,
	}

	return nil
}
