package recognition

import "sync"

// The process-wide manager handle. The camera is a single exclusively owned
// resource, so at most one capture loop exists; the handle is created lazily
// on first use and torn down explicitly.
var (
	sharedMu sync.Mutex
	shared   *Manager
)

// Shared returns the process-wide Manager, creating it from cfg on the first
// call. Later calls return the existing handle and ignore cfg, making the
// accessor idempotent. Controllers should receive this handle explicitly
// rather than reaching for it deep in their call stacks.
func Shared(cfg Config) *Manager {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		shared = New(cfg)
	}
	return shared
}

// ReleaseShared stops and discards the process-wide Manager. A subsequent
// Shared call builds a fresh one.
func ReleaseShared() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if shared == nil {
		return nil
	}
	err := shared.Stop()
	shared = nil
	return err
}
