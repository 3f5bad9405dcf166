package otel

import (
	"context"

	"github.com/panelglot/panelglot/pkg/detector"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type Detector interface {
	Observable
	detector.Provider
}

type observableDetector struct {
	model    string
	provider string

	detector detector.Provider
}

func NewDetector(provider, model string, p detector.Provider) Detector {
	return &observableDetector{
		detector: p,

		model:    model,
		provider: provider,
	}
}

func (p *observableDetector) otelSetup() {
}

func (p *observableDetector) Detect(ctx context.Context, input detector.Input, options *detector.DetectOptions) ([]detector.Region, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "detect "+p.model)
	defer span.End()

	result, err := p.detector.Detect(ctx, input, options)

	if err != nil {
		span.RecordError(err)
	}

	if EnableDebug {
		span.SetAttributes(attribute.Int("regions", len(result)))

		var outputs []string

		for _, r := range result {
			outputs = append(outputs, r.Text)
		}

		if len(outputs) > 0 {
			span.SetAttributes(attribute.StringSlice("texts", outputs))
		}
	}

	return result, err
}
