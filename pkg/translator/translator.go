package translator

import (
	"context"
)

// Provider translates a single piece of text.
//
// A nil Translation with a nil error means the service had nothing usable to
// say: either the input was empty after trimming (no call is made) or the
// vendor replied without a translation. Callers distinguish that case from a
// failed call, which always returns a non-nil error.
type Provider interface {
	Translate(ctx context.Context, input Input, options *TranslateOptions) (*Translation, error)
}

type Input struct {
	Text string
}

type TranslateOptions struct {
	Language string

	// Credential authenticates the call; passed per call so settings changes
	// apply to the next image rather than a cached client.
	Credential string
}

type Translation struct {
	Text string
}
