package surface

import (
	"time"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/fetcher"
	"github.com/panelglot/panelglot/pkg/settings"
	"github.com/panelglot/panelglot/pkg/view"
)

type Option func(*Surface)

func WithView(v *view.View) Option {
	return func(s *Surface) {
		s.view = v
	}
}

// WithPipe attaches the surface to an existing pipe instead of a fresh
// one, so the caller can hand the same pipe to the dispatcher side.
func WithPipe(pipe *bus.Pipe) Option {
	return func(s *Surface) {
		if pipe != nil {
			s.pipe = pipe
		}
	}
}

func WithDispatcher(destination Destination) Option {
	return func(s *Surface) {
		s.dispatcher = destination
	}
}

func WithSettings(store *settings.Store) Option {
	return func(s *Surface) {
		s.settings = store
	}
}

func WithInstance(instance string) Option {
	return func(s *Surface) {
		s.instance = instance
	}
}

// WithProbe enables natural-dimension probing for elements whose markup
// does not declare a size.
func WithProbe(client *fetcher.Client) Option {
	return func(s *Surface) {
		s.probe = client
	}
}

// WithMinSize overrides the candidate thresholds. The defaults, 300 wide
// by 400 tall, are tuned for tall panel imagery.
func WithMinSize(width, height float64) Option {
	return func(s *Surface) {
		if width > 0 {
			s.minWidth = width
		}

		if height > 0 {
			s.minHeight = height
		}
	}
}

func WithSummaryTimeout(timeout time.Duration) Option {
	return func(s *Surface) {
		if timeout > 0 {
			s.summaryTimeout = timeout
		}
	}
}
