package config

import (
	"errors"
	"strings"

	"github.com/panelglot/panelglot/pkg/limiter"
	"github.com/panelglot/panelglot/pkg/otel"
	"github.com/panelglot/panelglot/pkg/router/adaptive"
	"github.com/panelglot/panelglot/pkg/router/roundrobin"
	"github.com/panelglot/panelglot/pkg/translator"
	"github.com/panelglot/panelglot/pkg/translator/azure"
	"github.com/panelglot/panelglot/pkg/translator/custom"
	"github.com/panelglot/panelglot/pkg/translator/deepl"
	"github.com/panelglot/panelglot/pkg/translator/gemini"
	"github.com/panelglot/panelglot/pkg/translator/googlev2"

	"golang.org/x/time/rate"
)

func (cfg *Config) RegisterTranslator(id string, p translator.Provider) {
	if cfg.translator == nil {
		cfg.translator = make(map[string]translator.Provider)
	}

	if _, ok := cfg.translator[""]; !ok {
		cfg.translator[""] = p
	}

	cfg.translator[id] = p
}

func (cfg *Config) Translator(id string) (translator.Provider, error) {
	if cfg.translator != nil {
		if t, ok := cfg.translator[id]; ok {
			return t, nil
		}
	}

	return nil, errors.New("translator not found: " + id)
}

type translatorConfig struct {
	Type string `yaml:"type"`

	URL   string `yaml:"url"`
	Token string `yaml:"token"`

	Model  string `yaml:"model"`
	Region string `yaml:"region"`

	// Providers references other translator ids, for router types.
	Providers []string `yaml:"providers"`

	Limit *int `yaml:"limit"`
}

type translatorContext struct {
	Limiter *rate.Limiter

	Translators func(id string) (translator.Provider, error)
}

func (cfg *Config) registerTranslators(f *configFile) error {
	if f.Translators.IsZero() {
		return nil
	}

	var configs map[string]translatorConfig

	if err := f.Translators.Decode(&configs); err != nil {
		return err
	}

	for _, node := range f.Translators.Content {
		id := node.Value

		config, ok := configs[node.Value]

		if !ok {
			continue
		}

		context := translatorContext{
			Limiter: createLimiter(config.Limit),

			Translators: cfg.Translator,
		}

		translator, err := createTranslator(config, context)

		if err != nil {
			return err
		}

		if _, ok := translator.(limiter.Translator); !ok {
			translator = limiter.NewTranslator(context.Limiter, translator)
		}

		model := config.Model

		if model == "" {
			model = id
		}

		if _, ok := translator.(otel.Translator); !ok {
			translator = otel.NewTranslator(config.Type, model, translator)
		}

		cfg.RegisterTranslator(id, translator)
	}

	return nil
}

func createTranslator(cfg translatorConfig, context translatorContext) (translator.Provider, error) {
	switch strings.ToLower(cfg.Type) {
	case "google":
		return googleTranslator(cfg)

	case "gemini":
		return geminiTranslator(cfg)

	case "azure":
		return azureTranslator(cfg)

	case "deepl":
		return deeplTranslator(cfg)

	case "custom":
		return customTranslator(cfg)

	case "roundrobin":
		return routerTranslator(cfg, context, roundrobin.NewTranslator)

	case "adaptive":
		return routerTranslator(cfg, context, adaptive.NewTranslator)

	default:
		return nil, errors.New("invalid translator type: " + cfg.Type)
	}
}

func googleTranslator(cfg translatorConfig) (translator.Provider, error) {
	var options []googlev2.Option

	if cfg.Token != "" {
		options = append(options, googlev2.WithCredential(cfg.Token))
	}

	return googlev2.New(cfg.URL, options...)
}

func geminiTranslator(cfg translatorConfig) (translator.Provider, error) {
	var options []gemini.Option

	if cfg.Token != "" {
		options = append(options, gemini.WithCredential(cfg.Token))
	}

	return gemini.New(cfg.Model, options...)
}

func azureTranslator(cfg translatorConfig) (translator.Provider, error) {
	var options []azure.Option

	if cfg.Token != "" {
		options = append(options, azure.WithCredential(cfg.Token))
	}

	if cfg.Region != "" {
		options = append(options, azure.WithRegion(cfg.Region))
	}

	return azure.New(cfg.URL, options...)
}

func deeplTranslator(cfg translatorConfig) (translator.Provider, error) {
	var options []deepl.Option

	if cfg.Token != "" {
		options = append(options, deepl.WithCredential(cfg.Token))
	}

	return deepl.New(cfg.URL, options...)
}

func customTranslator(cfg translatorConfig) (translator.Provider, error) {
	var options []custom.Option

	if cfg.Token != "" {
		options = append(options, custom.WithCredential(cfg.Token))
	}

	return custom.New(cfg.URL, options...)
}

// routerTranslator assembles a router over previously registered
// translators, so the referenced ids must appear earlier in the file.
func routerTranslator(cfg translatorConfig, context translatorContext, assemble func(...translator.Provider) (translator.Provider, error)) (translator.Provider, error) {
	if len(cfg.Providers) == 0 {
		return nil, errors.New("router requires providers")
	}

	var providers []translator.Provider

	for _, id := range cfg.Providers {
		p, err := context.Translators(id)

		if err != nil {
			return nil, err
		}

		providers = append(providers, p)
	}

	return assemble(providers...)
}
