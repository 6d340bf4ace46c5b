package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes application errors for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error (HTTP 500).
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// Unreachable indicates the target URL could not be fetched (HTTP 422).
	Unreachable
	// Timeout indicates the target took too long to respond (HTTP 422).
	Timeout
	// Internal indicates the analysis itself failed unexpectedly (HTTP 500).
	Internal
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid_input"
	case Unreachable:
		return "unreachable"
	case Timeout:
		return "timeout"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind           Kind
	UpstreamStatus int // HTTP status code returned by the target domain
	Message        string
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Details returns the underlying cause message, or "" when there is none.
func (e *AppError) Details() string {
	if e.Cause == nil {
		return ""
	}
	return e.Cause.Error()
}

// KindOf reports the Kind of the first AppError in err's chain. Errors
// outside the taxonomy are Unknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
