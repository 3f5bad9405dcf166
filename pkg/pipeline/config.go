package pipeline

import (
	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/settings"
	"github.com/panelglot/panelglot/pkg/translator"
)

type Option func(*Processor)

func WithSettings(store *settings.Store) Option {
	return func(p *Processor) {
		p.settings = store
	}
}

func WithFetcher(client *fetcher.Client) Option {
	return func(p *Processor) {
		p.fetcher = client
	}
}

func WithDetector(provider detector.Provider) Option {
	return func(p *Processor) {
		p.detector = provider
	}
}

func WithTranslator(provider translator.Provider) Option {
	return func(p *Processor) {
		p.translator = provider
	}
}

func WithInstance(instance string) Option {
	return func(p *Processor) {
		p.instance = instance
	}
}

// WithConcurrency bounds how many regions translate at once. Zero means
// unbounded.
func WithConcurrency(limit int) Option {
	return func(p *Processor) {
		p.concurrency = limit
	}
}

// WithCache enables the bounded translation cache with the given capacity.
func WithCache(size int) Option {
	return func(p *Processor) {
		if cache, err := newTranslationCache(size); err == nil {
			p.cache = cache
		}
	}
}
