package store

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".appli.lock"

// Lock is an advisory lock on a data directory held for one session.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock fails with ErrLocked when another process holds dir.
func AcquireLock(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &IOError{Op: opLock, Path: dir, Err: err}
	}
	fl := flock.New(filepath.Join(dir, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, &IOError{Op: opLock, Path: fl.Path(), Err: err}
	}
	if !ok {
		return nil, ErrLocked
	}
	return &Lock{fl: fl}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
