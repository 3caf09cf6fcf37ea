package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
type Transcriber interface {
	// Transcript uploads the audio file at inputFilePath and returns its text.
	Transcript(ctx context.Context, inputFilePath string) (string, error)

	// Configured reports whether the transcriber has the credentials it needs.
	// Callers check it before doing any work that only feeds the upload.
	Configured() bool
}
