package errors

import (
	stderrors "errors"
	"net/http"

	apperrors "yt-transcript/internal/app/errors"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindBadRequest      ErrorKind = "bad_request"
	KindPayloadTooLarge ErrorKind = "payload_too_large"
	KindInternal        ErrorKind = "internal"
)

// Labels for failures raised by the HTTP layer itself
const (
	MessageBodyTooLarge = "Request body too large."
	MessageInternal     = "Internal server error"
)

// APIError is the error body returned to API callers
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Message string    `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewPayloadTooLargeError creates the error for bodies over the size limit
func NewPayloadTooLargeError() *APIError {
	return &APIError{
		Kind:    KindPayloadTooLarge,
		Message: MessageBodyTooLarge,
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// FromError converts a pipeline error into an APIError. Invalid input maps to
// 400, every other kind to 500. Only the fixed label reaches the caller.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	label := apperrors.Label(err)
	if label == "" {
		return NewInternalError(MessageInternal)
	}

	if apperrors.KindOf(err) == apperrors.KindInvalidInput {
		return NewBadRequestError(label)
	}
	return NewInternalError(label)
}
