package downloader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// AudioFilePrefix starts the name of every file the downloader writes.
	AudioFilePrefix = "audio-"

	// BestAudioFormat selects the best audio-only stream without re-encoding.
	BestAudioFormat = "bestaudio"

	// outputTemplate lets yt-dlp fill in the media id and its native extension.
	outputTemplate = AudioFilePrefix + "%(id)s.%(ext)s"

	// maxCapturedOutput caps how much stdout/stderr is kept per stream.
	maxCapturedOutput = 10 << 20
)

// Downloader fetches the best available audio stream of a video into a directory
type Downloader interface {
	FetchBestAudio(ctx context.Context, videoURL string, dir string) (*Result, error)
}

// Result holds the captured output of a downloader run
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// DownloadError is returned when the downloader process cannot be started or
// exits non-zero. Result carries whatever output was captured.
type DownloadError struct {
	Result *Result
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Result != nil && e.Result.ExitCode > 0 {
		return fmt.Sprintf("yt-dlp exited with code %d: %v", e.Result.ExitCode, e.Err)
	}
	return fmt.Sprintf("yt-dlp failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// YtDlp runs the yt-dlp executable
type YtDlp struct {
	executablePath string
	logger         *zap.Logger
}

// NewYtDlp creates a downloader backed by the yt-dlp binary at executablePath
func NewYtDlp(executablePath string, logger *zap.Logger) *YtDlp {
	if executablePath == "" {
		executablePath = "yt-dlp"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &YtDlp{
		executablePath: executablePath,
		logger:         logger,
	}
}

// Args returns the command line used to download videoURL into dir.
// The URL goes after "--" so it can never be read as an option.
func (y *YtDlp) Args(videoURL string, dir string) []string {
	return []string{
		"-f", BestAudioFormat,
		"--no-playlist",
		"--no-progress",
		"-o", filepath.Join(dir, outputTemplate),
		"--",
		videoURL,
	}
}

// FetchBestAudio downloads the best audio stream of videoURL into dir
func (y *YtDlp) FetchBestAudio(ctx context.Context, videoURL string, dir string) (*Result, error) {
	args := y.Args(videoURL, dir)
	y.logger.Debug("running yt-dlp",
		zap.String("path", y.executablePath),
		zap.Strings("args", args),
	)

	cmd := exec.CommandContext(ctx, y.executablePath, args...)

	stdout := &cappedBuffer{limit: maxCapturedOutput}
	stderr := &cappedBuffer{limit: maxCapturedOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("killed by context: %w", ctxErr)
		}
		return result, &DownloadError{Result: result, Err: err}
	}

	return result, nil
}

// Version returns the output of "yt-dlp --version"
func (y *YtDlp) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, y.executablePath, "--version").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("yt-dlp --version: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("yt-dlp --version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// cappedBuffer keeps the first limit bytes written and discards the rest
// without failing the writer.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if remaining := b.limit - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte {
	return b.buf.Bytes()
}
