package handshake

import (
	"time"
)

type Option func(*Retrier)

func WithInstance(instance string) Option {
	return func(r *Retrier) {
		r.instance = instance
	}
}

func WithMaxAttempts(attempts int) Option {
	return func(r *Retrier) {
		if attempts > 0 {
			r.maxAttempts = attempts
		}
	}
}

func WithBaseDelay(delay time.Duration) Option {
	return func(r *Retrier) {
		if delay > 0 {
			r.baseDelay = delay
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(r *Retrier) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}
