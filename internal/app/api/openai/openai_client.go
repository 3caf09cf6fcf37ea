package openai

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds an OpenAI client for apiKey. An empty baseURL keeps the
// library default (https://api.openai.com/v1).
func NewClient(apiKey string, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
}

// ErrorDetails extracts the service-side status, type and message from an
// OpenAI error for logging. ok is false when err carries none.
func ErrorDetails(err error) (status int, errType string, message string, ok bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Type, apiErr.Message, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := ""
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return reqErr.HTTPStatusCode, "request_error", msg, true
	}

	return 0, "", "", false
}
