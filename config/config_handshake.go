package config

import (
	"time"
)

// HandshakeConfig tunes the trigger retry loop.
type HandshakeConfig struct {
	Attempts int

	Delay   time.Duration
	Timeout time.Duration
}

type handshakeConfig struct {
	Attempts int `yaml:"attempts"`

	Delay   string `yaml:"delay"`
	Timeout string `yaml:"timeout"`
}

func (cfg *Config) registerHandshake(f *configFile) error {
	if f.Handshake.IsZero() {
		return nil
	}

	var config handshakeConfig

	if err := f.Handshake.Decode(&config); err != nil {
		return err
	}

	delay, err := parseDuration(config.Delay, 0)

	if err != nil {
		return err
	}

	timeout, err := parseDuration(config.Timeout, 0)

	if err != nil {
		return err
	}

	cfg.Handshake = HandshakeConfig{
		Attempts: config.Attempts,

		Delay:   delay,
		Timeout: timeout,
	}

	return nil
}
