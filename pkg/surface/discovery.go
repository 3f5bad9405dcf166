package surface

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/view"

	"golang.org/x/sync/errgroup"
)

// runDiscovery enumerates the view, dispatches every qualifying candidate
// and builds the trigger summary. Dispatch sends settle concurrently; the
// summary waits for them only up to summaryTimeout, so a hanging send
// delays nothing and is merely not counted.
func (s *Surface) runDiscovery(ctx context.Context) (summary bus.Summary) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("discovery failed", "url", s.view.URL, "panic", r)

			summary = bus.Summary{Status: bus.StatusError, Error: fmt.Sprint(r)}
		}
	}()

	if !s.runMu.TryLock() {
		return bus.Summary{Status: bus.StatusError, Error: "analysis already running"}
	}

	defer s.runMu.Unlock()

	s.probeNaturals(ctx)

	var candidates []*view.Element

	for _, element := range s.view.Elements {
		if s.qualifies(element) {
			candidates = append(candidates, element)
		}
	}

	if len(candidates) == 0 {
		return bus.Summary{Status: bus.StatusNoImages}
	}

	type unit struct {
		id      string
		locator string
	}

	var units []unit

	s.mu.Lock()

	seen := make(map[string]bool)

	for _, element := range candidates {
		id := s.assignID(element)

		if seen[id] {
			continue
		}

		seen[id] = true

		s.elements[id] = element

		units = append(units, unit{id: id, locator: element.Locator})
	}

	s.mu.Unlock()

	var sent atomic.Int64
	var group errgroup.Group

	for _, u := range units {
		s.overlays.ClearImage(u.id)

		group.Go(func() error {
			envelope, err := bus.NewEnvelope(bus.ActionProcessImage, s.instance, bus.ProcessImage{
				ImageURL: u.locator,
				ImageID:  u.id,
			})

			if err != nil {
				slog.Error("failed to encode dispatch", "image", u.id, "error", err)
				return nil
			}

			if err := s.dispatcher.Send(ctx, envelope); err != nil {
				slog.Warn("failed to dispatch image", "image", u.id, "error", err)
				return nil
			}

			sent.Add(1)

			return nil
		})
	}

	done := make(chan struct{})

	go func() {
		group.Wait()
		close(done)
	}()

	select {
	case <-done:

	case <-time.After(s.summaryTimeout):
		slog.Warn("summary window elapsed with dispatches still settling", "url", s.view.URL)

	case <-ctx.Done():
	}

	return bus.Summary{
		Status: bus.StatusProcessing,

		FoundCount: len(candidates),
		SentCount:  int(sent.Load()),
	}
}

// qualifies applies the candidate filter: minimum dimensions, preferring
// natural over displayed size, and a fetchable locator.
func (s *Surface) qualifies(element *view.Element) bool {
	width := element.DisplayWidth
	height := element.DisplayHeight

	if element.NaturalWidth > 0 && element.NaturalHeight > 0 {
		width = element.NaturalWidth
		height = element.NaturalHeight
	}

	if width < s.minWidth || height < s.minHeight {
		return false
	}

	return view.Fetchable(element.Locator)
}

// probeNaturals fills in missing natural dimensions by fetching and
// decoding image headers. Probe failures leave the element on its
// displayed dimensions.
func (s *Surface) probeNaturals(ctx context.Context) {
	if s.probe == nil {
		return
	}

	var group errgroup.Group

	group.SetLimit(4)

	for _, element := range s.view.Elements {
		if element.NaturalWidth > 0 || !view.Fetchable(element.Locator) {
			continue
		}

		group.Go(func() error {
			payload, err := s.probe.Fetch(ctx, element.Locator)

			if err != nil {
				slog.Debug("could not probe image dimensions", "locator", element.Locator, "error", err)
				return nil
			}

			element.NaturalWidth = float64(payload.Width)
			element.NaturalHeight = float64(payload.Height)

			return nil
		})
	}

	group.Wait()
}
