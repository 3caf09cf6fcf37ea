package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the configuration for values the relay cannot run with.
// A missing OpenAI key is not an error: transcription then fails per request.
func (c *Config) Validate() error {
	if err := ValidatePort(c.Port); err != nil {
		return err
	}
	if err := ValidateEnvironment(c.Environment); err != nil {
		return err
	}
	if strings.TrimSpace(c.YtDlpPath) == "" {
		return fmt.Errorf("yt-dlp path is required")
	}
	if strings.TrimSpace(c.ScratchDir) == "" {
		return fmt.Errorf("scratch directory is required")
	}
	if len(c.AllowedHosts) == 0 {
		return fmt.Errorf("at least one allowed video host is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if err := ValidateTimeout(c.DownloadTimeout, "download"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.TranscriptionTimeout, "transcription"); err != nil {
		return err
	}
	if c.OpenAIBaseURL != "" {
		if err := ValidateURL(c.OpenAIBaseURL, "OpenAI base"); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTimeout validates an optional timeout; zero disables it
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout < 0 {
		return fmt.Errorf("%s timeout cannot be negative", name)
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range (must be between 1 and 65535)", port)
	}
	return nil
}

// ValidateEnvironment validates the APP_ENV value
func ValidateEnvironment(env string) error {
	switch env {
	case "development", "production", "test":
		return nil
	default:
		return fmt.Errorf("unknown environment %q (expected development, production or test)", env)
	}
}
