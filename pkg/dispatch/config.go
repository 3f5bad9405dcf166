package dispatch

import (
	"github.com/panelglot/panelglot/pkg/pipeline"
	"github.com/panelglot/panelglot/pkg/status"
)

type Option func(*Dispatcher)

func WithPipeline(processor *pipeline.Processor) Option {
	return func(d *Dispatcher) {
		d.pipeline = processor
	}
}

func WithTrigger(trigger Trigger) Option {
	return func(d *Dispatcher) {
		d.trigger = trigger
	}
}

func WithStatus(indicator *status.Indicator) Option {
	return func(d *Dispatcher) {
		if indicator != nil {
			d.status = indicator
		}
	}
}

func WithInstance(instance string) Option {
	return func(d *Dispatcher) {
		d.instance = instance
	}
}
