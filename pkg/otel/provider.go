package otel

import (
	"os"
)

const instrumentationName = "github.com/panelglot/panelglot"

var (
	EnableDebug     = false
	EnableTelemetry = false
)

func init() {
	EnableDebug = os.Getenv("DEBUG") != ""
	EnableTelemetry = os.Getenv("TELEMETRY") != ""
}

// Observable marks a provider that already reports spans, so the registry
// does not wrap it twice.
type Observable interface {
	otelSetup()
}
