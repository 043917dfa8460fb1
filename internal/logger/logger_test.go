package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogPathEnv(t *testing.T) {
	t.Setenv("QHEX_LOG_FILE", "/tmp/custom.log")
	if got, _ := LogPath(); got != "/tmp/custom.log" {
		t.Fatalf("LogPath = %q, want %q", got, "/tmp/custom.log")
	}
	t.Setenv("QHEX_LOG_FILE", "")
	t.Setenv("QHEX_CONFIG_HOME", "/tmp/qhex-config")
	if got, _ := LogPath(); got != "/tmp/qhex-config/qhex.log" {
		t.Fatalf("LogPath = %q, want %q", got, "/tmp/qhex-config/qhex.log")
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qhex.log")
	t.Setenv("QHEX_LOG_FILE", path)
	if err := Init(true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debug("selection synced", "start", 4)
	Named("viewer").Infow("file loaded", "size", 16)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"logger initialized", "selection synced", "viewer", "file loaded"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Close()
	Info("dropped")
	Named("viewer").Infow("dropped")
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv("QHEX_DEBUG", "1")
	if !DebugEnabled() {
		t.Fatalf("DebugEnabled = false, want true")
	}
	t.Setenv("QHEX_DEBUG", "false")
	if DebugEnabled() {
		t.Fatalf("DebugEnabled = true, want false")
	}
}
