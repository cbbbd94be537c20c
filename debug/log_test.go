package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogDisabled(t *testing.T) {
	Disable()
	Log("test", "dropped %d", 1) // must not panic
	if Enabled() {
		t.Fatal("logging should be off")
	}
}

func TestLogWriter(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("deck", "loaded %s", "techno")
	line := buf.String()
	if !strings.Contains(line, "deck") || !strings.Contains(line, "loaded techno") {
		t.Errorf("unexpected log line %q", line)
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for range 10 {
		LogEvery(4, "bar", "tick")
	}
	if got := strings.Count(buf.String(), "tick"); got != 2 {
		t.Errorf("LogEvery(4) over 10 calls wrote %d lines, want 2", got)
	}
}

func TestEnableFile(t *testing.T) {
	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatal(err)
	}
	Log("song", "now playing song %d", 2)
	Disable()

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "now playing song 2") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}
