package action

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestRunner_Register(t *testing.T) {
	r := NewRunner(0)

	if err := r.Register("noop"); err == nil {
		t.Error("Register with no command succeeded")
	}
	if err := r.Register("noop", "true"); err != nil {
		t.Errorf("Register error = %v", err)
	}
	// Re-registering replaces the binding
	if err := r.Register("noop", "false"); err != nil {
		t.Errorf("Register error = %v", err)
	}
}

func TestRunner_FireExecutesCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	marker := filepath.Join(t.TempDir(), "fired")

	r := NewRunner(2 * time.Second)
	if err := r.Register("touch-marker", "sh", "-c", "touch "+marker); err != nil {
		t.Fatalf("Register error = %v", err)
	}

	r.Fire("session-1", "fist", "touch-marker")

	deadline := time.After(2 * time.Second)
	for {
		if _, err := os.Stat(marker); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("command never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunner_FireUnknownTag(t *testing.T) {
	r := NewRunner(0)
	// Logged and dropped, never panics
	r.Fire("session-1", "fist", "unbound")
}

func TestRunner_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	r := NewRunner(50 * time.Millisecond)
	if err := r.Register("slow", "sleep", "10"); err != nil {
		t.Fatalf("Register error = %v", err)
	}

	start := time.Now()
	if err := r.run([]string{"sleep", "10"}); err == nil {
		t.Fatal("run past the timeout succeeded")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, run took %s", elapsed)
	}
}
