package overlay

import (
	"cmp"
	"slices"
	"sync"
)

type EventType string

const (
	EventPlaced  EventType = "placed"
	EventCleared EventType = "cleared"
)

// Event notifies rendering sinks about one store change.
type Event struct {
	Type    EventType `json:"type"`
	ImageID string    `json:"imageId,omitempty"`

	Overlay *Overlay `json:"overlay,omitempty"`
}

// Store keeps the current overlays of one document view, keyed by image and
// quad. Placing at an occupied key replaces the previous overlay, which
// makes reconciliation idempotent per region regardless of arrival order.
type Store struct {
	mu sync.RWMutex

	items map[string]map[string]Overlay

	subscribers map[chan Event]struct{}
}

func NewStore() *Store {
	return &Store{
		items: make(map[string]map[string]Overlay),

		subscribers: make(map[chan Event]struct{}),
	}
}

func (s *Store) Place(overlay Overlay) {
	s.mu.Lock()

	image := s.items[overlay.ImageID]

	if image == nil {
		image = make(map[string]Overlay)
		s.items[overlay.ImageID] = image
	}

	image[quadKey(overlay.Quad)] = overlay

	s.mu.Unlock()

	s.publish(Event{Type: EventPlaced, ImageID: overlay.ImageID, Overlay: &overlay})
}

// ClearImage removes every overlay of one image, used before an image is
// (re)dispatched.
func (s *Store) ClearImage(imageID string) {
	s.mu.Lock()

	_, existed := s.items[imageID]

	delete(s.items, imageID)

	s.mu.Unlock()

	if existed {
		s.publish(Event{Type: EventCleared, ImageID: imageID})
	}
}

func (s *Store) List(imageID string) []Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overlays := make([]Overlay, 0, len(s.items[imageID]))

	for _, overlay := range s.items[imageID] {
		overlays = append(overlays, overlay)
	}

	sortOverlays(overlays)

	return overlays
}

func (s *Store) All() []Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var overlays []Overlay

	for _, image := range s.items {
		for _, overlay := range image {
			overlays = append(overlays, overlay)
		}
	}

	sortOverlays(overlays)

	return overlays
}

// Subscribe registers a rendering sink. The returned cancel func must be
// called when the sink disconnects. Slow sinks miss events rather than
// blocking reconciliation.
func (s *Store) Subscribe() (<-chan Event, func()) {
	events := make(chan Event, 64)

	s.mu.Lock()
	s.subscribers[events] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.subscribers[events]; ok {
			delete(s.subscribers, events)
			close(events)
		}
	}

	return events, cancel
}

func (s *Store) publish(event Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for subscriber := range s.subscribers {
		select {
		case subscriber <- event:
		default:
		}
	}
}

func sortOverlays(overlays []Overlay) {
	slices.SortFunc(overlays, func(a, b Overlay) int {
		if c := cmp.Compare(a.ImageID, b.ImageID); c != 0 {
			return c
		}

		if c := cmp.Compare(a.Box.Top, b.Box.Top); c != 0 {
			return c
		}

		return cmp.Compare(a.Box.Left, b.Box.Left)
	})
}
