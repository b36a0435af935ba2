package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Info("hello %s", "world")
	l.Warning("careful")
	l.Error("failed: %v", fmt.Errorf("boom"))
	l.Debug("hidden")

	out := buf.String()
	for _, want := range []string{"[INFO] hello world", "[WARNING] careful", "[ERROR] failed: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written with debug disabled:\n%s", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("colour codes written to a non-terminal:\n%s", out)
	}

	l.SetDebug(true)
	l.Debug("shown")
	if !strings.Contains(buf.String(), "[DEBUG] shown") {
		t.Errorf("expected debug line, got:\n%s", buf.String())
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	fmt.Fprintln(l.Writer(), "from a library")
	if !strings.Contains(buf.String(), "[INFO] from a library\n") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}

func TestAddFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var console bytes.Buffer
	l := New(&console, false)

	if err := l.AddFile(path); err != nil {
		t.Fatalf("add file: %v", err)
	}
	l.Info("to both")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INFO] to both") {
		t.Errorf("unexpected file contents: %q", data)
	}
	if !strings.Contains(console.String(), "[INFO] to both") {
		t.Errorf("expected line to still reach the original output, got %q", console.String())
	}
}

func TestAddFileMissingDirectory(t *testing.T) {
	l := New(&bytes.Buffer{}, false)
	if err := l.AddFile(filepath.Join(t.TempDir(), "missing", "app.log")); err == nil {
		t.Fatal("expected error for a missing directory")
	}
}
