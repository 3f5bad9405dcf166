// Package dispatch is the hub of the system. It accepts analysis
// requests, drives the trigger handshake toward the focused surface and
// fans discovered images out to the processing pipeline, relaying each
// result back to the surface it came from.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/pipeline"
	"github.com/panelglot/panelglot/pkg/status"
)

// Trigger starts one handshake round and blocks until it resolves.
type Trigger interface {
	Trigger(ctx context.Context) error
}

type Dispatcher struct {
	pipeline *pipeline.Processor
	trigger  Trigger
	status   *status.Indicator

	pipe *bus.Pipe

	instance string

	// running guards the analysis cycle: a second begin-analysis while a
	// handshake is still in flight is answered busy instead of starting
	// another one.
	running atomic.Bool
}

func New(options ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		status: status.New(),

		pipe: bus.NewPipe(),
	}

	for _, option := range options {
		option(d)
	}

	if d.pipeline == nil {
		return nil, errors.New("pipeline processor is required")
	}

	if d.trigger == nil {
		return nil, errors.New("handshake trigger is required")
	}

	return d, nil
}

func (d *Dispatcher) Pipe() *bus.Pipe {
	return d.pipe
}

func (d *Dispatcher) Status() *status.Indicator {
	return d.status
}

func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

// Attach starts listening on the dispatcher's pipe.
func (d *Dispatcher) Attach() {
	d.pipe.Attach(func(ctx context.Context, envelope bus.Envelope) (*bus.Envelope, error) {
		return d.handle(ctx, envelope, nil)
	})
}

func (d *Dispatcher) Detach() {
	d.pipe.Detach()
}

// Channel links one surface to the dispatcher. Messages sent through it
// run through the same routing as the dispatcher's pipe, and results for
// the images it carries flow back to the reply pipe.
func (d *Dispatcher) Channel(reply *bus.Pipe) *Channel {
	return &Channel{dispatcher: d, reply: reply}
}

type Channel struct {
	dispatcher *Dispatcher
	reply      *bus.Pipe
}

func (c *Channel) Send(ctx context.Context, envelope bus.Envelope) error {
	_, err := c.dispatcher.handle(ctx, envelope, c.reply)

	return err
}

// handle routes every inbound action. origin is the pipe results should
// reach for work submitted by a surface; it is nil for envelopes arriving
// on the dispatcher's own pipe.
func (d *Dispatcher) handle(ctx context.Context, envelope bus.Envelope, origin *bus.Pipe) (*bus.Envelope, error) {
	if d.instance != "" && envelope.Instance != "" && envelope.Instance != d.instance {
		slog.Warn("dropping envelope for foreign instance", "instance", envelope.Instance, "action", envelope.Action)

		return nil, nil
	}

	switch envelope.Action {
	case bus.ActionBeginAnalysis:
		return d.handleBegin(ctx)
	case bus.ActionProcessImage:
		return d.handleProcess(ctx, envelope, origin)
	default:
		slog.Warn("unknown action", "action", envelope.Action)

		return d.ack(envelope.Action, bus.StatusUnknownAction)
	}
}

// handleBegin acknowledges immediately and runs the handshake in the
// background. The running flag stays set until the handshake resolves, so
// overlapping requests are answered busy rather than queued.
func (d *Dispatcher) handleBegin(ctx context.Context) (*bus.Envelope, error) {
	if !d.running.CompareAndSwap(false, true) {
		return d.ack(bus.ActionBeginAnalysis, bus.StatusBusy)
	}

	d.status.Clear()

	go func(ctx context.Context) {
		defer d.running.Store(false)

		if err := d.trigger.Trigger(ctx); err != nil {
			slog.Warn("analysis trigger failed", "error", err)
		}
	}(context.WithoutCancel(ctx))

	return d.ack(bus.ActionBeginAnalysis, bus.StatusReceived)
}

// handleProcess validates the work unit and processes it without keeping
// the caller waiting. Results reach the origin pipe as they settle.
func (d *Dispatcher) handleProcess(ctx context.Context, envelope bus.Envelope, origin *bus.Pipe) (*bus.Envelope, error) {
	if origin == nil {
		return nil, errors.New("no surface to return results to")
	}

	var unit bus.ProcessImage

	if err := envelope.Decode(&unit); err != nil {
		return nil, fmt.Errorf("failed to decode work unit: %w", err)
	}

	if unit.ImageURL == "" || unit.ImageID == "" {
		return nil, errors.New("image locator and id are required")
	}

	go d.process(context.WithoutCancel(ctx), unit, origin)

	return d.ack(bus.ActionProcessImage, bus.StatusReceived)
}

func (d *Dispatcher) process(ctx context.Context, unit bus.ProcessImage, origin *bus.Pipe) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("image processing panicked", "imageId", unit.ImageID, "panic", r)

			d.status.Error(status.CodeError, fmt.Sprint(r))
		}
	}()

	d.pipeline.Process(ctx, unit, &observed{status: d.status, next: origin})
}

func (d *Dispatcher) ack(action, value string) (*bus.Envelope, error) {
	reply, err := bus.NewEnvelope(action, d.instance, bus.Ack{Status: value})
	if err != nil {
		return nil, err
	}

	return &reply, nil
}

// observed forwards pipeline results and raises the credential and quota
// statuses when a failure reveals one, so the UI learns about a broken
// key even when no surface is visible.
type observed struct {
	status *status.Indicator
	next   *bus.Pipe
}

func (o *observed) Send(ctx context.Context, envelope bus.Envelope) error {
	if envelope.Action == bus.ActionProcessingError {
		var failure bus.ProcessingError

		if err := envelope.Decode(&failure); err == nil && failure.Error != nil {
			switch {
			case failure.Error.AuthError:
				o.status.Error(status.CodeCredential, failure.Error.Detail())
			case failure.Error.QuotaError:
				o.status.Error(status.CodeQuota, failure.Error.Detail())
			}
		}
	}

	return o.next.Send(ctx, envelope)
}
