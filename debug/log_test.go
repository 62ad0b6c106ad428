package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	if err := EnableFile(path); err != nil {
		t.Fatal(err)
	}
	defer Disable()

	Log("play", "tick=%d", 42)
	for i := 0; i < 6; i++ {
		LogEvery(3, "emit", "status=%02x", 0x90)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "tick=42") || !strings.Contains(out, "cat=play") {
		t.Errorf("log missing record:\n%s", out)
	}
	if n := strings.Count(out, "status=90"); n != 2 {
		t.Errorf("LogEvery wrote %d records, want 2:\n%s", n, out)
	}
}

func TestLogDisabledIsSilent(t *testing.T) {
	Disable()
	Log("play", "dropped")
	if Enabled() {
		t.Fatal("still enabled")
	}
	// discards without panicking
	Logger().Info("nothing", "k", 1)
}
