package detector

import (
	"context"
)

// Provider locates text regions in a single image.
type Provider interface {
	Detect(ctx context.Context, input Input, options *DetectOptions) ([]Region, error)
}

type Input struct {
	// Content is the transport-encoded (base64) image payload.
	Content string
}

type DetectOptions struct {
	// Credential authenticates the call. It is passed per call rather than
	// held by the client so a settings change takes effect on the next image.
	Credential string
}

// Region is one detected block of text with its bounding quad in the
// image's native pixel space.
type Region struct {
	Text string

	Quad Quad
}

// Quad is an ordered list of (x, y) pixel coordinates. A usable quad has at
// least four points.
type Quad [][2]float64

func (q Quad) Valid() bool {
	return len(q) >= 4
}

// Bounds returns the axis-aligned extents of the quad.
func (q Quad) Bounds() (minX, minY, maxX, maxY float64) {
	for i, p := range q {
		if i == 0 || p[0] < minX {
			minX = p[0]
		}

		if i == 0 || p[1] < minY {
			minY = p[1]
		}

		if i == 0 || p[0] > maxX {
			maxX = p[0]
		}

		if i == 0 || p[1] > maxY {
			maxY = p[1]
		}
	}

	return minX, minY, maxX, maxY
}
