package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FakeYtDlpScript imitates yt-dlp: it resolves the -o template with media id
// "abc123" and extension "m4a", writes the file and prints a destination line.
const FakeYtDlpScript = `#!/bin/sh
out=""
url=""
while [ $# -gt 0 ]; do
  case "$1" in
    --version) echo "2025.01.01"; exit 0 ;;
    -o) out="$2"; shift 2 ;;
    --) shift; url="$1"; shift ;;
    *) shift ;;
  esac
done
file=$(printf '%s' "$out" | sed -e 's/%(id)s/abc123/' -e 's/%(ext)s/m4a/')
printf 'fake audio for %s' "$url" > "$file"
echo "[download] Destination: $file"
`

// FakeYtDlpFailingScript exits non-zero after writing to stderr.
const FakeYtDlpFailingScript = `#!/bin/sh
echo "ERROR: [youtube] abc123: Video unavailable" >&2
exit 1
`

// FakeYtDlpSilentScript succeeds without producing any file.
const FakeYtDlpSilentScript = `#!/bin/sh
echo "nothing to do"
exit 0
`

// WriteFakeYtDlp writes an executable shell script into a temp dir and
// returns its path. Tests using it are skipped on Windows.
func WriteFakeYtDlp(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake yt-dlp: %v", err)
	}
	return path
}

// CreateAudioFile writes a small placeholder audio file and returns its path
func CreateAudioFile(t *testing.T, dir string, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("ID3 fake audio content"), 0o644); err != nil {
		t.Fatalf("create audio file: %v", err)
	}
	return path
}
