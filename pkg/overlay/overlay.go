// Package overlay computes and stores positioned overlays for reconciled
// region results. Geometry works in the displayed coordinate space of an
// image element; quads stay in native pixel space until placed.
package overlay

import (
	"strconv"
	"strings"

	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/settings"
)

type Kind string

const (
	KindTranslation Kind = "translation"
	KindError       Kind = "error"
)

// Box is a placed rectangle in displayed pixels, relative to the image
// element's top-left corner.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Overlay is one rendered result: a translated text box or an error badge.
type Overlay struct {
	ImageID string `json:"imageId"`
	Kind    Kind   `json:"kind"`

	OriginalText   string `json:"originalText,omitempty"`
	TranslatedText string `json:"translatedText,omitempty"`
	Detail         string `json:"detail,omitempty"`

	Box  Box           `json:"box"`
	Quad detector.Quad `json:"quad,omitempty"`

	Style settings.Display `json:"style"`
}

// Position maps a quad's extents from natural pixel space into the
// displayed space. The box is scaled by the displayed/natural ratio,
// clamped inside the displayed bounds and floored at 1px per dimension so
// degenerate quads stay visible.
func Position(quad detector.Quad, naturalWidth, naturalHeight, displayWidth, displayHeight float64) Box {
	minX, minY, maxX, maxY := quad.Bounds()

	scaleX := 1.0
	scaleY := 1.0

	if naturalWidth > 0 && displayWidth > 0 {
		scaleX = displayWidth / naturalWidth
	}

	if naturalHeight > 0 && displayHeight > 0 {
		scaleY = displayHeight / naturalHeight
	}

	box := Box{
		Left:   minX * scaleX,
		Top:    minY * scaleY,
		Width:  (maxX - minX) * scaleX,
		Height: (maxY - minY) * scaleY,
	}

	if displayWidth > 0 {
		box.Left = min(max(box.Left, 0), displayWidth)
		box.Width = min(box.Width, displayWidth-box.Left)
	}

	if displayHeight > 0 {
		box.Top = min(max(box.Top, 0), displayHeight)
		box.Height = min(box.Height, displayHeight-box.Top)
	}

	box.Width = max(box.Width, 1)
	box.Height = max(box.Height, 1)

	return box
}

// CornerBadge is the fixed placement for image-level errors, which have no
// quad to position against.
func CornerBadge() Box {
	return Box{Left: 8, Top: 8, Width: 16, Height: 16}
}

func quadKey(quad detector.Quad) string {
	if len(quad) == 0 {
		return "image"
	}

	var sb strings.Builder

	for i, point := range quad {
		if i > 0 {
			sb.WriteByte(';')
		}

		sb.WriteString(strconv.FormatFloat(point[0], 'g', -1, 64))
		sb.WriteByte(',')
		sb.WriteString(strconv.FormatFloat(point[1], 'g', -1, 64))
	}

	return sb.String()
}
