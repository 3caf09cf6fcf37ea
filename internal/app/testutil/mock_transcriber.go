package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber is a mock implementation of the api.Transcriber interface
type MockTranscriber struct {
	mock.Mock
}

// NewMockTranscriber creates a MockTranscriber bound to t
func NewMockTranscriber(t *testing.T) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

// Transcript implements the api.Transcriber interface
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	args := m.Called(ctx, inputFilePath)
	return args.String(0), args.Error(1)
}

// Configured implements the api.Transcriber interface
func (m *MockTranscriber) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}
