package fslock

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// ErrHeld means a peer invocation already holds the lock. For periodic
// jobs that is a benign condition: missing one tick is harmless,
// corrupting output from concurrent writers is not.
var ErrHeld = errors.New("lock held by a peer invocation")

// Lock is an advisory exclusive file lock with non-blocking acquisition.
type Lock struct {
	f *os.File
}

// TryAcquire attempts to take the lock without blocking.
func TryAcquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrHeld
		}
		return nil, fmt.Errorf("flock %s: %w", path, err)
	}
	return &Lock{f: f}, nil
}

// Release drops the lock. Safe to call exactly once; the OS also releases
// on process exit, which covers the kill-by-scheduler path.
func (l *Lock) Release() error {
	defer l.f.Close()
	return unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
}
