package shared

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is an advisory file lock held for the duration of a command that writes into the site tree.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the lock at path without blocking.
//
// It returns [ErrLocked] when another process holds it. An empty path yields a no-op lock.
func AcquireLock(path string) (*Lock, error) {
	if path == "" {
		return &Lock{}, nil
	}

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location, empty for a no-op lock.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. Calling it on a no-op lock is allowed.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
