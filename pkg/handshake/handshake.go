// Package handshake delivers the begin-analysis trigger to a peer surface.
// The peer's receive pump may not have attached yet when the user triggers,
// so delivery retries with linear backoff before giving up.
package handshake

import (
	"context"
	"errors"
	"time"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/status"
)

// Peer is one located surface that accepts a trigger call.
type Peer interface {
	Call(ctx context.Context, envelope bus.Envelope) (*bus.Envelope, error)
}

// Locator resolves the most recently focused eligible surface. It fails
// when no surface exists, the candidate is inactive or minimized, or its
// document sits on a restricted scheme.
type Locator interface {
	Locate(ctx context.Context) (Peer, error)
}

type Retrier struct {
	locator Locator
	status  *status.Indicator

	instance string

	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration
}

func New(locator Locator, indicator *status.Indicator, options ...Option) (*Retrier, error) {
	if locator == nil {
		return nil, errors.New("locator is required")
	}

	if indicator == nil {
		return nil, errors.New("status indicator is required")
	}

	r := &Retrier{
		locator: locator,
		status:  indicator,

		maxAttempts: 3,
		baseDelay:   250 * time.Millisecond,
		timeout:     10 * time.Second,
	}

	for _, option := range options {
		option(r)
	}

	return r, nil
}

// Trigger runs the handshake. Only communication failures are retried; a
// successful round-trip ends the loop no matter what the summary says. The
// delay before retry n+1 is baseDelay*n, and after the final failure the
// indicator switches to peer-unreachable.
func (r *Retrier) Trigger(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		err := r.attempt(ctx)

		if err == nil {
			return nil
		}

		if attempt >= r.maxAttempts {
			r.status.Error(status.CodePeerUnreachable, "could not reach the document surface: "+err.Error())

			return err
		}

		select {
		case <-time.After(r.baseDelay * time.Duration(attempt)):

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *Retrier) attempt(ctx context.Context) error {
	peer, err := r.locator.Locate(ctx)

	if err != nil {
		return err
	}

	envelope, err := bus.NewEnvelope(bus.ActionTriggerAnalysis, r.instance, nil)

	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := peer.Call(ctx, envelope)

	if err != nil {
		return err
	}

	if reply == nil {
		return errors.New("peer sent no summary")
	}

	var summary bus.Summary

	if err := reply.Decode(&summary); err != nil {
		return err
	}

	switch summary.Status {
	case bus.StatusNoImages:
		r.status.NoImages()

	case bus.StatusProcessing:
		r.status.Processing(summary.SentCount)

	case bus.StatusError:
		r.status.Error(status.CodeDiscoveryFailed, summary.Error)

	default:
		r.status.Error(status.CodeError, "unexpected summary status: "+summary.Status)
	}

	return nil
}
