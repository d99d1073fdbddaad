package video

import (
	"os"
	"path/filepath"
	"testing"

	"edgedevice/internal/config"
	"edgedevice/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

// A file that exists but is not decodable video must not be returned as a
// source: Open releases the dead handle and falls back to the capture
// device. Machines without a camera end at the terminal error instead.
func TestOpen_UnreadableFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-video.mp4")
	if err := os.WriteFile(path, []byte("not a video container"), 0644); err != nil {
		t.Fatal(err)
	}

	source, err := Open(path, testLogger(t))
	if err != nil {
		if source != nil {
			t.Error("expected nil source alongside the error")
		}
		return
	}
	defer source.Close()

	if !source.IsOpened() {
		t.Error("fallback source must report open")
	}
}

func TestOpen_MissingFileFallsBack(t *testing.T) {
	source, err := Open(filepath.Join(t.TempDir(), "missing.mp4"), testLogger(t))
	if err != nil {
		if source != nil {
			t.Error("expected nil source alongside the error")
		}
		return
	}
	defer source.Close()

	if !source.IsOpened() {
		t.Error("fallback source must report open")
	}
}
