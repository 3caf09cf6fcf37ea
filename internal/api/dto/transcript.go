package dto

import (
	"strings"

	apperrors "yt-transcript/internal/app/errors"
)

// FetchTranscriptRequest represents the request body for fetching a transcript
type FetchTranscriptRequest struct {
	VideoURL string `json:"videoUrl" binding:"required" example:"https://youtu.be/dQw4w9WgXcQ"`
}

// Validate rejects URLs that are only whitespace
func (r *FetchTranscriptRequest) Validate() error {
	if strings.TrimSpace(r.VideoURL) == "" {
		return apperrors.ErrVideoURLRequired
	}
	return nil
}

// TranscriptResponse is returned when a transcript is ready
type TranscriptResponse struct {
	Transcript string `json:"transcript" example:"Never gonna give you up"`
}

// ErrorResponse documents the error body shape
type ErrorResponse struct {
	Error string `json:"error" example:"Please send a valid YouTube URL."`
}
