package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 4000
	DefaultEnvironment  = "development"
	DefaultLogLevel     = "info"
	DefaultYtDlpPath    = "yt-dlp"
	DefaultScratchDir   = "./tmp"
	DefaultMaxBodyBytes = 5 << 20
)

// DefaultAllowedHosts are the video hosts accepted by the transcript endpoint.
var DefaultAllowedHosts = []string{"youtube.com", "youtu.be"}

// Config holds the relay configuration
type Config struct {
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`

	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	YtDlpPath    string   `yaml:"ytdlp_path"`
	ScratchDir   string   `yaml:"scratch_dir"`
	AllowedHosts []string `yaml:"allowed_hosts"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`

	DownloadTimeout      time.Duration `yaml:"download_timeout"`
	TranscriptionTimeout time.Duration `yaml:"transcription_timeout"`

	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:             DefaultPort,
		Environment:      DefaultEnvironment,
		LogLevel:         DefaultLogLevel,
		YtDlpPath:        DefaultYtDlpPath,
		ScratchDir:       DefaultScratchDir,
		AllowedHosts:     append([]string(nil), DefaultAllowedHosts...),
		MaxBodyBytes:     DefaultMaxBodyBytes,
		CORSAllowOrigins: []string{"*"},
	}
}

// IsProduction reports whether the relay runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasOpenAIKey reports whether transcription credentials are present
func (c *Config) HasOpenAIKey() bool {
	return c.OpenAIAPIKey != ""
}

// LoadEnv loads environment variables from .env file if it exists.
// Variables already present in the process environment are not overridden.
func LoadEnv() (string, error) {
	envPaths := []string{
		".env",
		".env.local",
		"../.env",
		"../../.env",
	}

	// Environment variables might be set system-wide, so a missing file is fine
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}

	return "", nil
}

// LoadFile reads a YAML configuration file on top of the defaults
func LoadFile(configPath string) (*Config, error) {
	cfg := Default()

	configPath = os.ExpandEnv(configPath)
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return cfg, nil
}

// Load builds the configuration: defaults, then the optional YAML file, then
// environment variables. The result is validated.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath != "" {
		fileCfg, err := LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("OPENAI_API_KEY"); ok {
		c.OpenAIAPIKey = v
	}
	if v, ok := lookupEnv("OPENAI_BASE_URL"); ok {
		c.OpenAIBaseURL = v
	}
	if v, ok := lookupEnv("HOST"); ok {
		c.Host = v
	}
	if v, ok := lookupEnv("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v, ok := lookupEnv("APP_ENV"); ok {
		c.Environment = strings.ToLower(v)
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("YTDLP_PATH"); ok {
		c.YtDlpPath = v
	}
	if v, ok := lookupEnv("SCRATCH_DIR"); ok {
		c.ScratchDir = v
	}
	if v, ok := lookupEnv("ALLOWED_HOSTS"); ok {
		c.AllowedHosts = splitList(v)
	}
	if v, ok := lookupEnv("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_BODY_BYTES %q: %w", v, err)
		}
		c.MaxBodyBytes = n
	}
	if v, ok := lookupEnv("DOWNLOAD_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DOWNLOAD_TIMEOUT %q: %w", v, err)
		}
		c.DownloadTimeout = d
	}
	if v, ok := lookupEnv("TRANSCRIPTION_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TRANSCRIPTION_TIMEOUT %q: %w", v, err)
		}
		c.TranscriptionTimeout = d
	}
	if v, ok := lookupEnv("CORS_ALLOW_ORIGINS"); ok {
		c.CORSAllowOrigins = splitList(v)
	}
	return nil
}

// lookupEnv treats blank values as unset
func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
