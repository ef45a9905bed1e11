package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed backend call
type Kind int

// Error kinds
const (
	KindNetwork Kind = iota + 1
	KindAuthentication
	KindValidation
	KindMalformedResponse
	KindNotFound
)

// Sentinel errors matched by errors.Is against an *Error of the same kind
var (
	ErrNetwork           = errors.New("network error")
	ErrAuthentication    = errors.New("authentication error")
	ErrValidation        = errors.New("validation error")
	ErrMalformedResponse = errors.New("malformed response")
	ErrDocumentNotFound  = errors.New("sales document not found")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindAuthentication:
		return ErrAuthentication
	case KindValidation:
		return ErrValidation
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindNotFound:
		return ErrDocumentNotFound
	default:
		return nil
	}
}

// Error is a failed call to the verb or catalog API
type Error struct {
	Kind Kind
	// Request is the verb name, or the catalog path for catalog calls
	Request    string
	StatusCode int
	// ErrorCode is the backend's status.errorCode, when it sent one
	ErrorCode int
	Body      string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Request, e.Kind.sentinel())
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.ErrorCode != 0 {
		msg += fmt.Sprintf(" (error code %d)", e.ErrorCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is matches the sentinel of the error's kind
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

const maxBodyExcerpt = 512

func excerpt(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt]) + "..."
	}
	return string(body)
}
