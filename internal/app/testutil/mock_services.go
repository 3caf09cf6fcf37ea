package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"

	"yt-transcript/internal/app/transcript"
	"yt-transcript/internal/downloader"
)

// MockDownloader is a mock implementation of downloader.Downloader
type MockDownloader struct {
	mock.Mock
}

// NewMockDownloader creates a MockDownloader bound to t
func NewMockDownloader(t *testing.T) *MockDownloader {
	m := &MockDownloader{}
	m.Test(t)
	return m
}

// FetchBestAudio implements downloader.Downloader
func (m *MockDownloader) FetchBestAudio(ctx context.Context, videoURL string, dir string) (*downloader.Result, error) {
	args := m.Called(ctx, videoURL, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*downloader.Result), args.Error(1)
}

// WritesAudio returns a Run function for FetchBestAudio expectations that
// drops a file named name into the directory the pipeline passed in.
func WritesAudio(t *testing.T, name string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		dir := args.String(2)
		if err := os.WriteFile(filepath.Join(dir, name), []byte("fake audio"), 0o644); err != nil {
			t.Fatalf("write stub audio: %v", err)
		}
	}
}

// MockTranscriptService is a mock implementation of transcript.Service
type MockTranscriptService struct {
	mock.Mock
}

// NewMockTranscriptService creates a MockTranscriptService bound to t
func NewMockTranscriptService(t *testing.T) *MockTranscriptService {
	m := &MockTranscriptService{}
	m.Test(t)
	return m
}

// FetchTranscript implements transcript.Service
func (m *MockTranscriptService) FetchTranscript(ctx context.Context, req transcript.Request) (*transcript.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transcript.Result), args.Error(1)
}
