package config

import (
	"errors"
	"strings"

	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/detector/vision"
	"github.com/panelglot/panelglot/pkg/limiter"
	"github.com/panelglot/panelglot/pkg/otel"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterDetector(id string, p detector.Provider) {
	if cfg.detector == nil {
		cfg.detector = make(map[string]detector.Provider)
	}

	if _, ok := cfg.detector[""]; !ok {
		cfg.detector[""] = p
	}

	cfg.detector[id] = p
}

func (cfg *Config) Detector(id string) (detector.Provider, error) {
	if cfg.detector != nil {
		if d, ok := cfg.detector[id]; ok {
			return d, nil
		}
	}

	return nil, errors.New("detector not found: " + id)
}

type detectorConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Limit *int `yaml:"limit"`
}

type detectorContext struct {
	Limiter *rate.Limiter
}

func (cfg *Config) registerDetectors(f *configFile) error {
	if f.Detectors.IsZero() {
		return nil
	}

	var configs map[string]detectorConfig

	if err := f.Detectors.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Detectors.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		context := detectorContext{
			Limiter: createLimiter(config.Limit),
		}

		detector, err := createDetector(config, context)

		if err != nil {
			return err
		}

		if _, ok := detector.(limiter.Detector); !ok {
			detector = limiter.NewDetector(context.Limiter, detector)
		}

		if _, ok := detector.(otel.Detector); !ok {
			detector = otel.NewDetector(config.Type, id, detector)
		}

		cfg.RegisterDetector(id, detector)
	}

	return nil
}

func createDetector(cfg detectorConfig, context detectorContext) (detector.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "vision":
		return visionDetector(cfg)

	default:
		return nil, errors.New("invalid detector type: " + cfg.Type)
	}
}

func visionDetector(cfg detectorConfig) (detector.Provider, error) {
	var options []vision.Option

	if cfg.Token != "" {
		options = append(options, vision.WithCredential(cfg.Token))
	}

	return vision.New(cfg.URL, options...)
}
