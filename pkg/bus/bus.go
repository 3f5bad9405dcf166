// Package bus carries messages between the dispatcher domain and the peer
// surfaces. The two sides share no state: everything crossing a Pipe is a
// self-contained envelope with an action tag and a JSON body, mirroring a
// process boundary. A Pipe whose receiver has not attached yet reports
// ErrNotListening, the transient condition the handshake retrier exists for.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var ErrNotListening = errors.New("bus: no receiver listening")

type Envelope struct {
	Action   string          `json:"action"`
	Instance string          `json:"instance,omitempty"`
	Body     json.RawMessage `json:"body,omitempty"`
}

func NewEnvelope(action, instance string, body any) (Envelope, error) {
	envelope := Envelope{
		Action:   action,
		Instance: instance,
	}

	if body == nil {
		return envelope, nil
	}

	data, err := json.Marshal(body)

	if err != nil {
		return Envelope{}, err
	}

	envelope.Body = data

	return envelope, nil
}

func (e Envelope) Decode(v any) error {
	if len(e.Body) == 0 {
		return errors.New("bus: empty message body")
	}

	return json.Unmarshal(e.Body, v)
}

// Handler consumes one envelope and optionally produces a reply. Handlers
// must return quickly; long-running work is spawned, not awaited.
type Handler func(ctx context.Context, envelope Envelope) (*Envelope, error)

// Pipe is one duplex channel into a receiving domain.
type Pipe struct {
	mu sync.RWMutex

	handler Handler
}

func NewPipe() *Pipe {
	return &Pipe{}
}

func (p *Pipe) Attach(handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handler = handler
}

func (p *Pipe) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.handler = nil
}

func (p *Pipe) Listening() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.handler != nil
}

// Call delivers an envelope and waits for the receiver's reply, bounded by
// the caller's context.
func (p *Pipe) Call(ctx context.Context, envelope Envelope) (*Envelope, error) {
	p.mu.RLock()
	handler := p.handler
	p.mu.RUnlock()

	if handler == nil {
		return nil, ErrNotListening
	}

	type result struct {
		reply *Envelope
		err   error
	}

	done := make(chan result, 1)

	go func() {
		reply, err := handler(ctx, envelope)
		done <- result{reply, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case r := <-done:
		return r.reply, r.err
	}
}

// Send delivers an envelope and waits only for the receiver to accept it.
// Any reply is discarded.
func (p *Pipe) Send(ctx context.Context, envelope Envelope) error {
	_, err := p.Call(ctx, envelope)

	return err
}
