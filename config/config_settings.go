package config

import (
	"github.com/panelglot/panelglot/pkg/settings"
)

type settingsConfig struct {
	Credential string `yaml:"credential"`
	Language   string `yaml:"language"`

	Display *displayConfig `yaml:"display"`
}

type displayConfig struct {
	Font int `yaml:"font"`

	Text       string  `yaml:"text"`
	Background string  `yaml:"background"`
	Opacity    float64 `yaml:"opacity"`

	Layer int `yaml:"layer"`
}

// registerSettings seeds the shared settings store. Everything here can
// still be changed at runtime through the settings endpoint.
func (cfg *Config) registerSettings(f *configFile) error {
	if f.Settings.IsZero() {
		return nil
	}

	var config settingsConfig

	if err := f.Settings.Decode(&config); err != nil {
		return err
	}

	values := settings.Defaults()

	values.Credential = config.Credential

	if config.Language != "" {
		values.TargetLanguage = config.Language
	}

	if config.Display != nil {
		if config.Display.Font > 0 {
			values.Display.FontSize = config.Display.Font
		}

		if config.Display.Text != "" {
			values.Display.TextColor = config.Display.Text
		}

		if config.Display.Background != "" {
			values.Display.BackgroundColor = config.Display.Background
		}

		if config.Display.Opacity > 0 {
			values.Display.BackgroundAlpha = config.Display.Opacity
		}

		if config.Display.Layer > 0 {
			values.Display.ZIndex = config.Display.Layer
		}
	}

	cfg.Settings = settings.New(settings.WithValues(values))

	return nil
}
