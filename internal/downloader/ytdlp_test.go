package downloader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-transcript/internal/app/testutil"
	"yt-transcript/internal/downloader"
)

func TestYtDlp_Args(t *testing.T) {
	y := downloader.NewYtDlp("/usr/local/bin/yt-dlp", nil)

	args := y.Args("https://youtu.be/abc123", "/scratch/req")

	assert.Equal(t, []string{
		"-f", "bestaudio",
		"--no-playlist",
		"--no-progress",
		"-o", filepath.Join("/scratch/req", "audio-%(id)s.%(ext)s"),
		"--",
		"https://youtu.be/abc123",
	}, args)
}

func TestYtDlp_FetchBestAudio(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		expectError bool
		validate    func(t *testing.T, dir string, result *downloader.Result, err error)
	}{
		{
			name:   "writes templated file",
			script: testutil.FakeYtDlpScript,
			validate: func(t *testing.T, dir string, result *downloader.Result, err error) {
				require.NoError(t, err)
				path := filepath.Join(dir, "audio-abc123.m4a")
				assert.FileExists(t, path)

				content, readErr := os.ReadFile(path)
				require.NoError(t, readErr)
				assert.Equal(t, "fake audio for https://youtu.be/abc123", string(content))

				assert.Equal(t, 0, result.ExitCode)
				assert.Contains(t, string(result.Stdout), "Destination")
			},
		},
		{
			name:        "non-zero exit",
			script:      testutil.FakeYtDlpFailingScript,
			expectError: true,
			validate: func(t *testing.T, dir string, result *downloader.Result, err error) {
				var dlErr *downloader.DownloadError
				require.True(t, errors.As(err, &dlErr))
				assert.Equal(t, 1, dlErr.Result.ExitCode)
				assert.Contains(t, string(dlErr.Result.Stderr), "Video unavailable")
				assert.Contains(t, err.Error(), "exited with code 1")
				assert.Same(t, result, dlErr.Result)
			},
		},
		{
			name:   "success without output file",
			script: testutil.FakeYtDlpSilentScript,
			validate: func(t *testing.T, dir string, result *downloader.Result, err error) {
				require.NoError(t, err)
				entries, readErr := os.ReadDir(dir)
				require.NoError(t, readErr)
				assert.Empty(t, entries)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin := testutil.WriteFakeYtDlp(t, tt.script)
			dir := t.TempDir()

			y := downloader.NewYtDlp(bin, nil)
			result, err := y.FetchBestAudio(context.Background(), "https://youtu.be/abc123", dir)

			if tt.expectError {
				require.Error(t, err)
			}
			require.NotNil(t, result)
			tt.validate(t, dir, result, err)
		})
	}
}

func TestYtDlp_MissingBinary(t *testing.T) {
	y := downloader.NewYtDlp(filepath.Join(t.TempDir(), "no-such-yt-dlp"), nil)

	result, err := y.FetchBestAudio(context.Background(), "https://youtu.be/abc123", t.TempDir())

	require.Error(t, err)
	var dlErr *downloader.DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.Equal(t, -1, result.ExitCode)
	assert.Contains(t, err.Error(), "yt-dlp failed")
}

func TestYtDlp_ContextCancel(t *testing.T) {
	bin := testutil.WriteFakeYtDlp(t, "#!/bin/sh\nexec sleep 10\n")
	y := downloader.NewYtDlp(bin, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := y.FetchBestAudio(ctx, "https://youtu.be/abc123", t.TempDir())

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestYtDlp_Version(t *testing.T) {
	bin := testutil.WriteFakeYtDlp(t, testutil.FakeYtDlpScript)
	y := downloader.NewYtDlp(bin, nil)

	version, err := y.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025.01.01", version)

	missing := downloader.NewYtDlp(filepath.Join(t.TempDir(), "missing"), nil)
	_, err = missing.Version(context.Background())
	assert.Error(t, err)
}
