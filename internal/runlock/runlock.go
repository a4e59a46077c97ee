// Package runlock provides an advisory, process-exclusive lock over a
// forgelink output directory, so two concurrent runs never use the same
// output directory at once.
package runlock

import (
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// Lock is a held advisory lock over a single output directory.
type Lock struct {
	fl *flock.Flock
}

// Acquire tries to take an exclusive, non-blocking lock on
// "<dir>/.forgelink.lock". It returns an error naming the directory
// if another run already holds it.
func Acquire(dir string) (*Lock, error) {
	fl := flock.New(lockPath(dir))

	ok, err := fl.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to acquire run lock in %q", dir)
	}

	if !ok {
		return nil, errors.Errorf("another forgelink run already holds the lock in %q", dir)
	}

	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil *Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}

	return errors.Wrap(l.fl.Unlock(), "unable to release run lock")
}

func lockPath(dir string) string {
	return dir + "/.forgelink.lock"
}
