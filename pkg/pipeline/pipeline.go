// Package pipeline drives one image through acquire, detect and
// per-region translation. Expected failures never surface to the caller:
// every outcome, success or failure, is reported to the destination as a
// self-contained message.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/fault"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/settings"
	"github.com/panelglot/panelglot/pkg/text"
	"github.com/panelglot/panelglot/pkg/translator"

	"golang.org/x/sync/errgroup"
)

// Destination receives outcome messages. A bus.Pipe satisfies this.
type Destination interface {
	Send(ctx context.Context, envelope bus.Envelope) error
}

type Processor struct {
	settings *settings.Store
	fetcher  *fetcher.Client

	detector   detector.Provider
	translator translator.Provider

	cache *translationCache

	instance    string
	concurrency int
}

func New(options ...Option) (*Processor, error) {
	p := &Processor{
		fetcher: fetcher.New(),
	}

	for _, option := range options {
		option(p)
	}

	if p.settings == nil {
		return nil, errors.New("settings store is required")
	}

	if p.detector == nil {
		return nil, errors.New("detector is required")
	}

	if p.translator == nil {
		return nil, errors.New("translator is required")
	}

	return p, nil
}

// Process runs the pipeline for one image unit. Settings are read fresh on
// every invocation so a mid-run change applies to the next image, and one
// region's failure never aborts its siblings.
func (p *Processor) Process(ctx context.Context, unit bus.ProcessImage, destination Destination) {
	values := p.settings.Values()

	if values.Credential == "" {
		p.reportError(ctx, destination, unit.ImageID, nil, fault.Plain("credential not configured"))
		return
	}

	payload, err := p.fetcher.Fetch(ctx, unit.ImageURL)

	if err != nil {
		p.reportError(ctx, destination, unit.ImageID, nil, fault.Plain("failed to fetch image: "+err.Error()))
		return
	}

	regions, err := p.detector.Detect(ctx, detector.Input{Content: payload.Content}, &detector.DetectOptions{Credential: values.Credential})

	if err != nil {
		p.reportError(ctx, destination, unit.ImageID, nil, asFault(fault.ServiceOCR, err))
		return
	}

	if len(regions) == 0 {
		return
	}

	var group errgroup.Group

	if p.concurrency > 0 {
		group.SetLimit(p.concurrency)
	}

	for _, region := range regions {
		group.Go(func() error {
			p.processRegion(ctx, unit, region, values, destination)
			return nil
		})
	}

	group.Wait()
}

func (p *Processor) processRegion(ctx context.Context, unit bus.ProcessImage, region detector.Region, values settings.Values, destination Destination) {
	content := text.Normalize(region.Text)

	if content == "" {
		return
	}

	if p.cache != nil {
		if translated, ok := p.cache.get(unit.ImageURL, content, values.TargetLanguage); ok {
			p.reportTranslation(ctx, destination, unit.ImageID, region, translated)
			return
		}
	}

	translation, err := p.translator.Translate(ctx, translator.Input{Text: content}, &translator.TranslateOptions{
		Language:   values.TargetLanguage,
		Credential: values.Credential,
	})

	if err != nil {
		p.reportError(ctx, destination, unit.ImageID, region.Quad, asFault(fault.ServiceTranslate, err))
		return
	}

	if translation == nil {
		p.reportError(ctx, destination, unit.ImageID, region.Quad, &fault.Error{
			Service: fault.ServiceTranslate,
			Message: "service returned no translation",
		})

		return
	}

	if p.cache != nil {
		p.cache.add(unit.ImageURL, content, values.TargetLanguage, translation.Text)
	}

	p.reportTranslation(ctx, destination, unit.ImageID, region, translation.Text)
}

func (p *Processor) reportTranslation(ctx context.Context, destination Destination, imageID string, region detector.Region, translated string) {
	envelope, err := bus.NewEnvelope(bus.ActionDisplayTranslation, p.instance, bus.DisplayTranslation{
		ImageID: imageID,

		OriginalText:   region.Text,
		TranslatedText: translated,

		Quad: region.Quad,
	})

	if err != nil {
		slog.Error("failed to encode translation result", "image", imageID, "error", err)
		return
	}

	if err := destination.Send(ctx, envelope); err != nil {
		slog.Error("failed to deliver translation result", "image", imageID, "error", err)
	}
}

func (p *Processor) reportError(ctx context.Context, destination Destination, imageID string, quad detector.Quad, cause *fault.Error) {
	envelope, err := bus.NewEnvelope(bus.ActionProcessingError, p.instance, bus.ProcessingError{
		ImageID: imageID,

		Error: cause,
		Quad:  quad,
	})

	if err != nil {
		slog.Error("failed to encode processing error", "image", imageID, "error", err)
		return
	}

	if err := destination.Send(ctx, envelope); err != nil {
		slog.Error("failed to deliver processing error", "image", imageID, "error", err)
	}
}

func asFault(service fault.Service, err error) *fault.Error {
	var fe *fault.Error

	if errors.As(err, &fe) {
		return fe
	}

	return &fault.Error{
		Service: service,
		Message: err.Error(),
	}
}
