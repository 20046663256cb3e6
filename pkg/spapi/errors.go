package spapi

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this package wraps at least one of
// these; use errors.Is to classify.
var (
	// ErrTransport is a network or HTTP-layer failure reaching the token
	// endpoint or a resource host.
	ErrTransport = errors.New("transport failure")

	// ErrAuth is a rejected credential exchange, or a token refresh that was
	// needed but failed.
	ErrAuth = errors.New("authentication failure")

	// ErrMalformedResponse is a token or resource body that did not decode
	// as the expected JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrURL is an invalid base URL, path, or parameter composition.
	ErrURL = errors.New("invalid request url")

	// ErrValidation is a parameter combination rejected before any network
	// call is made.
	ErrValidation = errors.New("validation failed")
)

// Validationf returns an error wrapping ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// APIErrorDetail is one entry of the Selling Partner API error list.
type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// APIError is a non-2xx resource response decoded by DecodeJSON.
type APIError struct {
	StatusCode int
	RequestID  string
	Errors     []APIErrorDetail
	Body       string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("selling partner API error (status %d): %s", e.StatusCode, e.Body)
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, d := range e.Errors {
		msgs = append(msgs, d.Code+": "+d.Message)
	}
	return fmt.Sprintf(
		"selling partner API error (status %d): %s",
		e.StatusCode,
		strings.Join(msgs, "; "),
	)
}
