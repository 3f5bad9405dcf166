package fault

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
)

// Service identifies which remote collaborator produced an error.
type Service string

const (
	ServiceOCR       Service = "OCR"
	ServiceTranslate Service = "Translate"
)

// Category is the user-facing classification of an Error, derived from its
// flags in a fixed priority order.
type Category string

const (
	CategoryAuth    Category = "auth"
	CategoryQuota   Category = "quota"
	CategoryTimeout Category = "timeout"
	CategoryNetwork Category = "network"
	CategoryGeneric Category = "generic"
)

// Error is the structured error produced by remote service calls. It is
// immutable once constructed and serializes losslessly across the message
// boundary, so peers can classify failures without re-deriving flags.
type Error struct {
	Service           Service `json:"originatingService,omitempty"`
	TransportStatus   int     `json:"transportStatus,omitempty"`
	ServiceStatusCode string  `json:"serviceStatusCode,omitempty"`

	AuthError    bool `json:"isAuthError,omitempty"`
	QuotaError   bool `json:"isQuotaError,omitempty"`
	NetworkError bool `json:"isNetworkError,omitempty"`
	TimeoutError bool `json:"isTimeoutError,omitempty"`

	Message string `json:"message"`
}

// Plain builds an Error that carries only a message: image-level failures
// that happen before any remote call, such as a missing credential or an
// unreadable source. All flags stay false, so Category is generic.
func Plain(message string) *Error {
	return &Error{
		Message: message,
	}
}

func (e *Error) Error() string {
	message := e.Message

	if message == "" {
		message = "remote call failed"
	}

	if e.Service == "" {
		return message
	}

	return string(e.Service) + ": " + message
}

// Classify builds an Error from the raw facts of a failed call. It is a pure
// function of its inputs: transport status (0 for non-HTTP failures), the
// vendor status code if one was present, whether the failure was a timeout,
// and the raw message. Flags can overlap; callers consult Category for the
// priority-ordered interpretation.
func Classify(service Service, transportStatus int, serviceStatusCode string, timeout bool, message string) *Error {
	e := &Error{
		Service:           service,
		TransportStatus:   transportStatus,
		ServiceStatusCode: serviceStatusCode,

		Message: message,
	}

	if timeout {
		e.TimeoutError = true
	}

	if transportStatus == 0 && !timeout {
		e.NetworkError = true
	}

	if transportStatus == 401 || transportStatus == 403 {
		e.AuthError = true
	}

	switch serviceStatusCode {
	case "PERMISSION_DENIED", "UNAUTHENTICATED":
		e.AuthError = true
	}

	if transportStatus == 429 || serviceStatusCode == "RESOURCE_EXHAUSTED" || strings.Contains(strings.ToLower(message), "quota") {
		e.QuotaError = true
	}

	return e
}

// FromTransport classifies an error raised before any HTTP status was
// available: timeouts, connection resets, DNS failures.
func FromTransport(service Service, err error) *Error {
	return Classify(service, 0, "", isTimeout(err), err.Error())
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return os.IsTimeout(err)
}

// Category resolves the flags in priority order: auth outranks quota
// outranks timeout outranks network; anything else is generic.
func (e *Error) Category() Category {
	switch {
	case e.AuthError:
		return CategoryAuth

	case e.QuotaError:
		return CategoryQuota

	case e.TimeoutError:
		return CategoryTimeout

	case e.NetworkError:
		return CategoryNetwork
	}

	return CategoryGeneric
}

// Detail renders a short human-readable description for error badges,
// following the Category priority order.
func (e *Error) Detail() string {
	switch e.Category() {
	case CategoryAuth:
		return "authentication failed: check the configured credential"

	case CategoryQuota:
		return "service quota exceeded"

	case CategoryTimeout:
		return string(e.Service) + " request timed out"

	case CategoryNetwork:
		return "network error reaching " + string(e.Service) + " service"
	}

	if e.ServiceStatusCode != "" {
		return string(e.Service) + " error (" + e.ServiceStatusCode + ")"
	}

	if e.Service == "" {
		return e.Message
	}

	return string(e.Service) + " error: " + e.Message
}
