package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManagerAt(path, 0)
	m.SetFileState("/data/a.bin", FileState{Cursor: 42, ScrollRow: 2, Lane: "ascii", SelectionStart: 40, SelectionEnd: 44, Size: 100})
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	again := NewManagerAt(path, 0)
	defer again.Stop()
	state, ok := again.FileState("/data/a.bin")
	if !ok {
		t.Fatalf("state missing after reload")
	}
	if state.Cursor != 42 || state.Lane != "ascii" || state.SelectionEnd != 44 {
		t.Fatalf("state = %+v", state)
	}
	if got := again.ActiveFile(); got != "/data/a.bin" {
		t.Fatalf("ActiveFile = %q, want %q", got, "/data/a.bin")
	}
}

func TestSaveSkipsClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManagerAt(path, 0)
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clean save wrote a file: %v", err)
	}
	m.SetFileState("/x", FileState{Cursor: 1})
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("dirty save did not write: %v", err)
	}
}

func TestAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManagerAt(path, 10*time.Millisecond)
	defer m.Stop()
	m.SetFileState("/x", FileState{Cursor: 7, ModTime: 1234})

	deadline := time.Now().Add(2 * time.Second)
	for {
		again := NewManagerAt(path, 0)
		st, ok := again.FileState("/x")
		_ = again.Stop()
		if ok {
			if st.Cursor != 7 || st.ModTime != 1234 {
				t.Fatalf("autosaved state = %+v", st)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("autosave never wrote the session")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCorruptSessionStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := NewManagerAt(path, 0)
	defer m.Stop()
	if _, ok := m.FileState("/x"); ok {
		t.Fatalf("unexpected state from corrupt session")
	}
	m.SetFileState("/x", FileState{Cursor: 1})
}

func TestStopTwice(t *testing.T) {
	m := NewManagerAt(filepath.Join(t.TempDir(), "session.json"), 0)
	_ = m.Stop()
	if err := m.Stop(); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}
}
