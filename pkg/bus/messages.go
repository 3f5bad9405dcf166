package bus

import (
	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/fault"
)

const (
	// ActionBeginAnalysis triggers a new analysis cycle (UI to dispatcher).
	ActionBeginAnalysis = "begin-analysis"

	// ActionTriggerAnalysis asks a peer surface to run discovery
	// (dispatcher to surface, replied to with a Summary).
	ActionTriggerAnalysis = "trigger-analysis"

	// ActionProcessImage requests the pipeline for one discovered image
	// (surface to dispatcher, no reply).
	ActionProcessImage = "process-image"

	// ActionDisplayTranslation delivers one translated region
	// (dispatcher to surface).
	ActionDisplayTranslation = "display-translation"

	// ActionProcessingError delivers one region- or image-level failure
	// (dispatcher to surface).
	ActionProcessingError = "processing-error"
)

const (
	StatusReceived      = "received"
	StatusBusy          = "busy"
	StatusUnknownAction = "unknown-action"

	StatusProcessing = "processing"
	StatusNoImages   = "no-images"
	StatusError      = "error"
)

// Ack is the synchronous reply to a trigger.
type Ack struct {
	Status string `json:"status"`
}

// ProcessImage names one image unit to run through the pipeline.
type ProcessImage struct {
	ImageURL string `json:"imageUrl"`
	ImageID  string `json:"imageId"`
}

// DisplayTranslation is one successful region outcome. Quad stays in the
// image's native pixel space; the surface scales it at render time.
type DisplayTranslation struct {
	ImageID string `json:"imageId"`

	OriginalText   string `json:"originalText"`
	TranslatedText string `json:"translatedText"`

	Quad detector.Quad `json:"quad"`
}

// ProcessingError is one failed region or image. Quad is null for
// image-level failures, which occur before any region exists.
type ProcessingError struct {
	ImageID string `json:"imageId"`

	Error *fault.Error  `json:"error"`
	Quad  detector.Quad `json:"quad"`
}

// Summary is the surface's reply to a trigger-analysis call.
type Summary struct {
	Status string `json:"status"`

	FoundCount int `json:"foundCount,omitempty"`
	SentCount  int `json:"sentCount,omitempty"`

	Error string `json:"error,omitempty"`
}
