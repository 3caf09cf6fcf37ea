package whisper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sashabaranov/go-openai"

	apperrors "yt-transcript/internal/app/errors"
)

const (
	// Model is the OpenAI transcription model used for every upload.
	Model = "gpt-4o-mini-transcribe"

	// Temperature keeps decoding close to deterministic.
	Temperature float32 = 0.2
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client     *openai.Client
	configured bool
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance. configured
// is false when no API key was supplied; Transcript then fails without
// contacting the service.
func NewRemoteTranscriber(client *openai.Client, configured bool) *RemoteTranscriber {
	return &RemoteTranscriber{client: client, configured: configured}
}

// Configured reports whether an API key is present
func (rt *RemoteTranscriber) Configured() bool {
	return rt.configured && rt.client != nil
}

// Transcript streams the audio file to the OpenAI transcription endpoint.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	if !rt.Configured() {
		return "", apperrors.ErrMissingAPIKey
	}

	f, err := os.Open(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	req := openai.AudioRequest{
		Model:       Model,
		Reader:      f,
		FilePath:    filepath.Base(inputFilePath),
		Format:      openai.AudioResponseFormatJSON,
		Temperature: Temperature,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}

	return resp.Text, nil
}
