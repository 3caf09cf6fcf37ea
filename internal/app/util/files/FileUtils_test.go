package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, modTime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name       string
		setup      func() string
		shouldFail bool
	}{
		{
			name: "create_nested_directory",
			setup: func() string {
				return filepath.Join(tempDir, "level1", "level2", "tmp")
			},
		},
		{
			name: "existing_directory_is_fine",
			setup: func() string {
				dir := filepath.Join(tempDir, "exists")
				require.NoError(t, os.Mkdir(dir, 0o755))
				return dir
			},
		},
		{
			name: "existing_file_at_path",
			setup: func() string {
				filePath := filepath.Join(tempDir, "existing_file")
				require.NoError(t, os.WriteFile(filePath, []byte("content"), 0o644))
				return filePath
			},
			shouldFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup()
			err := EnsureDir(dir)
			if tt.shouldFail {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())

			// second call is a no-op
			assert.NoError(t, EnsureDir(dir))
		})
	}
}

func TestCreateScratchDir_Unique(t *testing.T) {
	base := filepath.Join(t.TempDir(), "tmp")

	first, err := CreateScratchDir(base)
	require.NoError(t, err)
	second, err := CreateScratchDir(base)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, base, filepath.Dir(first))
	assert.DirExists(t, first)
	assert.DirExists(t, second)
}

func TestCreateScratchDir_BaseIsFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "tmp")
	require.NoError(t, os.WriteFile(base, nil, 0o644))

	_, err := CreateScratchDir(base)
	assert.Error(t, err)
}

func TestIsPartialDownload(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"audio-abc123.m4a", false},
		{"audio-abc123.webm", false},
		{"audio-abc123.m4a.part", true},
		{"audio-abc123.webm.PART", true},
		{"audio-abc123.m4a.ytdl", true},
		{"audio-abc123.temp", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPartialDownload(tt.name))
		})
	}
}

func TestFindCompletedFiles(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	touch(t, filepath.Join(dir, "audio-b.m4a"), now.Add(-time.Minute))
	touch(t, filepath.Join(dir, "audio-a.webm"), now)
	touch(t, filepath.Join(dir, "audio-c.m4a.part"), now)
	touch(t, filepath.Join(dir, "video-d.mp4"), now)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "audio-dir"), 0o755))

	got, err := FindCompletedFiles(dir, "audio-")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "audio-b.m4a", got[0].Name)
	assert.Equal(t, "audio-a.webm", got[1].Name)
	assert.Equal(t, filepath.Join(dir, "audio-a.webm"), got[1].FullPath)
	assert.Equal(t, int64(len("audio")), got[1].Size)
}

func TestFindCompletedFiles_SameModTimeOrdersByName(t *testing.T) {
	dir := t.TempDir()
	stamp := time.Now().Truncate(time.Second)
	touch(t, filepath.Join(dir, "audio-z.m4a"), stamp)
	touch(t, filepath.Join(dir, "audio-a.m4a"), stamp)

	got, err := FindCompletedFiles(dir, "audio-")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "audio-a.m4a", got[0].Name)
	assert.Equal(t, "audio-z.m4a", got[1].Name)
}

func TestFindCompletedFiles_MissingDir(t *testing.T) {
	_, err := FindCompletedFiles(filepath.Join(t.TempDir(), "nope"), "audio-")
	assert.Error(t, err)
}

func TestLatestCompletedFile(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := LatestCompletedFile(dir, "audio-")
	require.NoError(t, err)
	assert.False(t, ok)

	now := time.Now()
	touch(t, filepath.Join(dir, "audio-old.m4a"), now.Add(-time.Hour))
	touch(t, filepath.Join(dir, "audio-new.m4a"), now)

	latest, ok, err := LatestCompletedFile(dir, "audio-")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "audio-new.m4a", latest.Name)
}

func TestRemoveDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	require.NoError(t, os.Mkdir(dir, 0o755))
	touch(t, filepath.Join(dir, "audio-x.m4a"), time.Now())

	require.NoError(t, RemoveDir(dir))
	assert.NoDirExists(t, dir)

	// already gone
	assert.NoError(t, RemoveDir(dir))
}
