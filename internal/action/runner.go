// Package action executes the OS-level commands bound to confirmed gesture
// sessions.
package action

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 5 * time.Second

// Runner maps action tags to commands and runs them off the dispatch
// goroutine. Fire matches the confirm machine's action port: it is
// fire-and-forget, and failures are logged, never retried.
type Runner struct {
	timeout time.Duration

	mu       sync.RWMutex
	commands map[string][]string
}

// NewRunner creates a Runner. Zero timeout means DefaultTimeout.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		timeout:  timeout,
		commands: make(map[string][]string),
	}
}

// Register binds an action tag to a command line. Registering an empty
// command is an error; registering the same tag again replaces the binding.
func (r *Runner) Register(tag string, argv ...string) error {
	if len(argv) == 0 {
		return fmt.Errorf("action %q: empty command", tag)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[tag] = argv
	return nil
}

// Fire launches the command bound to the action tag in its own goroutine.
// An unknown tag is logged and dropped.
func (r *Runner) Fire(sessionID, gestureID, tag string) {
	r.mu.RLock()
	argv, ok := r.commands[tag]
	r.mu.RUnlock()

	if !ok {
		log.Printf("action: no command registered for %q (gesture %q, session %s)", tag, gestureID, sessionID)
		return
	}

	go func() {
		if err := r.run(argv); err != nil {
			log.Printf("action: %q failed: %v (session %s)", tag, err, sessionID)
			return
		}
		log.Printf("action: %q executed for gesture %q (session %s)", tag, gestureID, sessionID)
	}()
}

func (r *Runner) run(argv []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("timeout after %s", r.timeout)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("%w, stderr: %s", err, s)
		}
		return err
	}
	return nil
}
