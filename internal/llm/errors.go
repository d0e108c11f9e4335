package llm

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorKind classifies a failed model call
type ErrorKind string

// Error kinds
const (
	KindRateLimited   ErrorKind = "rate_limited"
	KindMisconfigured ErrorKind = "misconfigured"
	KindUnavailable   ErrorKind = "unavailable"
)

// User-facing messages per kind
const (
	MessageRateLimited   = "Rate limit reached! Please wait 60 seconds."
	MessageMisconfigured = "API key not configured. Please add a valid Gemini API key."
	MessageUnavailable   = "AI service temporarily unavailable. Try again later."
)

// Error is a classified model failure. Message is safe to show to the user.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// MessageFor returns the user-facing message for kind.
func MessageFor(kind ErrorKind) string {
	switch kind {
	case KindRateLimited:
		return MessageRateLimited
	case KindMisconfigured:
		return MessageMisconfigured
	default:
		return MessageUnavailable
	}
}

// Classify converts any error into an *Error. Already classified errors pass through.
// HTTP status from the Google API error wins; otherwise the message text is inspected.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	status := 0
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		status = gerr.Code
	}

	kind := kindFor(status, err.Error())
	return &Error{Kind: kind, Status: status, Message: MessageFor(kind), Cause: err}
}

// KindOf returns the classification of err, or KindUnavailable for unclassified errors.
func KindOf(err error) ErrorKind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnavailable
}

func kindFor(status int, msg string) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindMisconfigured
	}
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return KindRateLimited
	case strings.Contains(msg, "API key"), strings.Contains(msg, "API_KEY"), strings.Contains(msg, "INVALID_ARGUMENT"):
		return KindMisconfigured
	}
	return KindUnavailable
}
