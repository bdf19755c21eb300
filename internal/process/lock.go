package process

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked reports that another run holds the process lock.
var ErrLocked = errors.New("process is locked by another run")

// Lock is an exclusive advisory lock on a single process.
type Lock struct {
	lock *flock.Flock
}

// LockPath returns the lock file for a process inside lockDir.
func LockPath(lockDir string, id int64) string {
	return filepath.Join(lockDir, fmt.Sprintf("process-%d.lock", id))
}

// AcquireLock takes the process lock without blocking.
func AcquireLock(lockDir string, id int64) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := LockPath(lockDir, id)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("process %d: %w", id, ErrLocked)
	}
	return &Lock{lock: fl}, nil
}

// Release unlocks the process.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
