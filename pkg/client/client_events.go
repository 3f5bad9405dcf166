package client

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/panelglot/panelglot/pkg/overlay"

	"github.com/gorilla/websocket"
)

type Event = overlay.Event

type EventService struct {
	Options []RequestOption
}

func NewEventService(opts ...RequestOption) EventService {
	return EventService{
		Options: opts,
	}
}

// Stream yields overlay events for one session until the context is
// canceled or the server closes the feed. The current overlays arrive
// first, so a consumer that connects mid-run still sees the full state.
func (r *EventService) Stream(ctx context.Context, session string, opts ...RequestOption) iter.Seq2[*Event, error] {
	return func(yield func(*Event, error) bool) {
		c := newRequestConfig(append(r.Options, opts...)...)

		u, err := socketURL(c.URL, session)

		if err != nil {
			yield(nil, err)
			return
		}

		header := http.Header{}

		if c.Token != "" {
			header.Set("Authorization", "Bearer "+c.Token)
		}

		conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, header)

		if err != nil {
			if resp != nil {
				resp.Body.Close()
			}

			yield(nil, err)
			return
		}

		defer conn.Close()

		done := make(chan struct{})
		defer close(done)

		go func() {
			select {
			case <-ctx.Done():
				conn.Close()

			case <-done:
			}
		}()

		for {
			var event Event

			if err := conn.ReadJSON(&event); err != nil {
				if ctx.Err() != nil {
					return
				}

				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return
				}

				yield(nil, err)
				return
			}

			if !yield(&event, nil) {
				return
			}
		}
	}
}

func socketURL(base, session string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/v1/sessions/" + session + "/events")

	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"

	case "https":
		u.Scheme = "wss"
	}

	return u.String(), nil
}
