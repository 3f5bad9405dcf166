// Package surface is the peer side of the system: it discovers candidate
// images in a document view, dispatches them for processing and reconciles
// the asynchronous per-region results into positioned overlays. One
// Surface serves one document view and runs independently of every other.
package surface

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/overlay"
	"github.com/panelglot/panelglot/pkg/settings"
	"github.com/panelglot/panelglot/pkg/view"
)

// Destination receives the surface's process-image messages, normally the
// dispatcher's inbound pipe.
type Destination interface {
	Send(ctx context.Context, envelope bus.Envelope) error
}

type Surface struct {
	view     *view.View
	overlays *overlay.Store
	settings *settings.Store

	dispatcher Destination
	pipe       *bus.Pipe

	probe *fetcher.Client

	instance string

	minWidth  float64
	minHeight float64

	summaryTimeout time.Duration

	runMu sync.Mutex

	mu       sync.Mutex
	counter  int64
	elements map[string]*view.Element
}

func New(options ...Option) (*Surface, error) {
	s := &Surface{
		overlays: overlay.NewStore(),
		settings: settings.New(),

		pipe: bus.NewPipe(),

		minWidth:  300,
		minHeight: 400,

		summaryTimeout: 5 * time.Second,

		elements: make(map[string]*view.Element),
	}

	for _, option := range options {
		option(s)
	}

	if s.view == nil {
		return nil, errors.New("document view is required")
	}

	if s.dispatcher == nil {
		return nil, errors.New("dispatcher destination is required")
	}

	return s, nil
}

// Pipe is the surface's inbound channel. It reports ErrNotListening until
// Attach has run, which is exactly the window the handshake retrier covers.
func (s *Surface) Pipe() *bus.Pipe {
	return s.pipe
}

func (s *Surface) Overlays() *overlay.Store {
	return s.overlays
}

// Attach starts listening for triggers and results.
func (s *Surface) Attach() {
	s.pipe.Attach(s.handle)
}

func (s *Surface) Detach() {
	s.pipe.Detach()
}

func (s *Surface) handle(ctx context.Context, envelope bus.Envelope) (reply *bus.Envelope, err error) {
	if envelope.Instance != s.instance {
		slog.Warn("dropping message from foreign instance", "action", envelope.Action)
		return nil, nil
	}

	switch envelope.Action {
	case bus.ActionTriggerAnalysis:
		return s.handleTrigger(ctx)

	case bus.ActionDisplayTranslation:
		var payload bus.DisplayTranslation

		if err := envelope.Decode(&payload); err != nil {
			slog.Warn("dropping malformed translation result", "error", err)
			return nil, nil
		}

		s.applyTranslation(payload)

		return nil, nil

	case bus.ActionProcessingError:
		var payload bus.ProcessingError

		if err := envelope.Decode(&payload); err != nil {
			slog.Warn("dropping malformed processing error", "error", err)
			return nil, nil
		}

		s.applyError(payload)

		return nil, nil
	}

	slog.Warn("dropping message with unknown action", "action", envelope.Action)

	return nil, nil
}

func (s *Surface) handleTrigger(ctx context.Context) (*bus.Envelope, error) {
	summary := s.runDiscovery(ctx)

	reply, err := bus.NewEnvelope(bus.ActionTriggerAnalysis, s.instance, summary)

	if err != nil {
		return nil, err
	}

	return &reply, nil
}

// assignID hands out identifiers that stay stable for the view's lifetime:
// a monotonic counter plus a timestamp.
func (s *Surface) assignID(element *view.Element) string {
	if element.ID != "" {
		return element.ID
	}

	s.counter++

	element.ID = fmt.Sprintf("img-%d-%d", s.counter, time.Now().UnixMilli())

	return element.ID
}
