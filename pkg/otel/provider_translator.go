package otel

import (
	"context"

	"github.com/panelglot/panelglot/pkg/translator"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Translator interface {
	Observable
	translator.Provider
}

type observableTranslator struct {
	model    string
	provider string

	translator translator.Provider
}

func NewTranslator(provider, model string, p translator.Provider) Translator {
	return &observableTranslator{
		translator: p,

		model:    model,
		provider: provider,
	}
}

func (p *observableTranslator) otelSetup() {
}

func (p *observableTranslator) Translate(ctx context.Context, input translator.Input, options *translator.TranslateOptions) (*translator.Translation, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "translate "+p.model)
	defer span.End()

	if options != nil && options.Language != "" {
		span.SetAttributes(attribute.String("language", options.Language))
	}

	result, err := p.translator.Translate(ctx, input, options)

	if err != nil {
		span.RecordError(err)
	}

	return result, err
}
