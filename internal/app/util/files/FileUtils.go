package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// partialSuffixes mark artifacts a downloader is still writing.
var partialSuffixes = []string{".part", ".ytdl", ".temp", ".tmp"}

// FileInfo describes a file found in a scratch directory
type FileInfo struct {
	FullPath string
	Name     string
	ModTime  time.Time
	Size     int64
}

// EnsureDir creates dir and any missing parents. It succeeds when dir
// already exists and fails when the path is occupied by a file.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// CreateScratchDir ensures baseDir exists and creates a fresh, uniquely named
// subdirectory inside it. The caller owns the returned directory.
func CreateScratchDir(baseDir string) (string, error) {
	if err := EnsureDir(baseDir); err != nil {
		return "", err
	}

	dir := filepath.Join(baseDir, uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	return dir, nil
}

// IsPartialDownload reports whether name looks like an in-progress download
func IsPartialDownload(name string) bool {
	lower := strings.ToLower(name)
	return lo.SomeBy(partialSuffixes, func(suffix string) bool {
		return strings.HasSuffix(lower, suffix)
	})
}

// FindCompletedFiles lists regular files in dir whose names start with prefix,
// skipping partial downloads. Results are ordered oldest first, then by name.
func FindCompletedFiles(dir string, prefix string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	matches := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return e.Type().IsRegular() &&
			strings.HasPrefix(e.Name(), prefix) &&
			!IsPartialDownload(e.Name())
	})

	fileInfos := make([]FileInfo, 0, len(matches))
	for _, e := range matches {
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		fileInfos = append(fileInfos, FileInfo{
			FullPath: filepath.Join(dir, e.Name()),
			Name:     e.Name(),
			ModTime:  info.ModTime(),
			Size:     info.Size(),
		})
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		if fileInfos[i].ModTime.Equal(fileInfos[j].ModTime) {
			return fileInfos[i].Name < fileInfos[j].Name
		}
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})

	return fileInfos, nil
}

// LatestCompletedFile returns the newest match of FindCompletedFiles, or
// false when there is none.
func LatestCompletedFile(dir string, prefix string) (FileInfo, bool, error) {
	fileInfos, err := FindCompletedFiles(dir, prefix)
	if err != nil {
		return FileInfo{}, false, err
	}
	if len(fileInfos) == 0 {
		return FileInfo{}, false, nil
	}
	return fileInfos[len(fileInfos)-1], true, nil
}

// RemoveDir deletes dir and everything in it. A missing dir is not an error.
func RemoveDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	return nil
}
