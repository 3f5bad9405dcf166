package config

import (
	"bytes"
	"os"
	"time"

	"github.com/panelglot/panelglot/pkg/auth"
	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/settings"
	"github.com/panelglot/panelglot/pkg/translator"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address string

	Authorizers []auth.Provider

	detector   map[string]detector.Provider
	translator map[string]translator.Provider

	Settings *settings.Store

	Surface   SurfaceConfig
	Handshake HandshakeConfig
	Pipeline  PipelineConfig
}

func Parse(path string) (*Config, error) {
	file, err := parseFile(path)

	if err != nil {
		return nil, err
	}

	c := &Config{
		Address: ":8080",

		Settings: settings.New(),
	}

	if file.Address != "" {
		c.Address = file.Address
	}

	if err := c.registerAuthorizer(file); err != nil {
		return nil, err
	}

	if err := c.registerDetectors(file); err != nil {
		return nil, err
	}

	if err := c.registerTranslators(file); err != nil {
		return nil, err
	}

	if err := c.registerSettings(file); err != nil {
		return nil, err
	}

	if err := c.registerSurface(file); err != nil {
		return nil, err
	}

	if err := c.registerHandshake(file); err != nil {
		return nil, err
	}

	if err := c.registerPipeline(file); err != nil {
		return nil, err
	}

	return c, nil
}

type configFile struct {
	Address string `yaml:"address"`

	Authorizers []authorizerConfig `yaml:"authorizers"`

	Detectors   yaml.Node `yaml:"detectors"`
	Translators yaml.Node `yaml:"translators"`

	Settings yaml.Node `yaml:"settings"`

	Surface   yaml.Node `yaml:"surface"`
	Handshake yaml.Node `yaml:"handshake"`
	Pipeline  yaml.Node `yaml:"pipeline"`
}

func parseFile(path string) (*configFile, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, err
	}

	data = []byte(os.ExpandEnv(string(data)))

	var config configFile

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createLimiter(limit *int) *rate.Limiter {
	if limit == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(*limit), *limit)
}

func parseDuration(val string, fallback time.Duration) (time.Duration, error) {
	if val == "" {
		return fallback, nil
	}

	return time.ParseDuration(val)
}
