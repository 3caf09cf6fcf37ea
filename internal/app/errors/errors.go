package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a pipeline failure. The HTTP layer maps kinds to status codes.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindFilesystem            Kind = "filesystem_error"
	KindDownloadFailed        Kind = "download_failed"
	KindTranscriptionFailed   Kind = "transcription_failed"
	KindResponseSerialization Kind = "response_serialization_error"
	KindUnknown               Kind = "unknown"
)

// Common errors. The messages are the labels shown to API callers.
var (
	// Input errors
	ErrVideoURLRequired    = New(KindInvalidInput, "videoUrl is required")
	ErrUnsupportedVideoURL = New(KindInvalidInput, "Please send a valid YouTube URL.")

	// Scratch directory errors
	ErrScratchDir = New(KindFilesystem, "Could not create tmp directory on the server.")

	// Download errors
	ErrDownloadFailed = New(KindDownloadFailed, "Audio download failed. Check yt-dlp is installed and the video is accessible.")
	ErrNoAudioFiles   = New(KindDownloadFailed, "Audio download failed: no audio files found.")

	// Transcription errors
	ErrMissingAPIKey       = New(KindTranscriptionFailed, "OPENAI_API_KEY is not set on the server. Add it and redeploy.")
	ErrTranscriptionFailed = New(KindTranscriptionFailed, "OpenAI transcription failed. Check your API key and model.")

	// Response errors
	ErrResponseFailed = New(KindResponseSerialization, "Failed to send transcript response.")
)

// Error represents a categorized pipeline error
type Error struct {
	kind    Kind
	message string
	cause   error
}

// New creates a new error
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap attaches a cause to one of the common errors, keeping its kind and label.
func Wrap(err error, sentinel *Error) error {
	if err == nil {
		return nil
	}
	return &Error{
		kind:    sentinel.kind,
		message: sentinel.message,
		cause:   err,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.message == t.message
}

// Kind returns the error category
func (e *Error) Kind() Kind {
	return e.kind
}

// Label returns the message without the cause chain.
func (e *Error) Label() string {
	return e.message
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}

// Label returns the caller-facing label of err, or "" when err carries none.
func Label(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.message
	}
	return ""
}
