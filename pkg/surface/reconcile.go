package surface

import (
	"log/slog"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/overlay"
	"github.com/panelglot/panelglot/pkg/view"
)

// applyTranslation places one translated region. Results arrive in any
// order and each carries its own quad, so placement needs no sequencing.
func (s *Surface) applyTranslation(payload bus.DisplayTranslation) {
	element := s.element(payload.ImageID)

	if element == nil {
		slog.Warn("translation for unknown image", "image", payload.ImageID)
		return
	}

	s.overlays.Place(overlay.Overlay{
		ImageID: payload.ImageID,
		Kind:    overlay.KindTranslation,

		OriginalText:   payload.OriginalText,
		TranslatedText: payload.TranslatedText,

		Box:  s.position(element, payload.Quad),
		Quad: payload.Quad,

		Style: s.settings.Values().Display,
	})
}

// applyError places an error badge: quad-positioned for region failures,
// at a fixed corner for image-level ones.
func (s *Surface) applyError(payload bus.ProcessingError) {
	element := s.element(payload.ImageID)

	if element == nil {
		slog.Warn("error for unknown image", "image", payload.ImageID)
		return
	}

	detail := "processing failed"

	if payload.Error != nil {
		detail = payload.Error.Detail()
	}

	box := overlay.CornerBadge()

	if len(payload.Quad) > 0 {
		box = s.position(element, payload.Quad)
	}

	s.overlays.Place(overlay.Overlay{
		ImageID: payload.ImageID,
		Kind:    overlay.KindError,

		Detail: detail,

		Box:  box,
		Quad: payload.Quad,

		Style: s.settings.Values().Display,
	})
}

func (s *Surface) position(element *view.Element, quad detector.Quad) overlay.Box {
	displayWidth := element.DisplayWidth
	displayHeight := element.DisplayHeight

	if displayWidth == 0 {
		displayWidth = element.NaturalWidth
	}

	if displayHeight == 0 {
		displayHeight = element.NaturalHeight
	}

	return overlay.Position(quad, element.NaturalWidth, element.NaturalHeight, displayWidth, displayHeight)
}

func (s *Surface) element(id string) *view.Element {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.elements[id]
}
