// Package lock serializes install attempts across limit-up processes with an advisory file lock.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/limit-lab/limit-up/internal/messages"
)

// ErrBusy reports that another process held the lock for the whole wait.
var ErrBusy = errors.New("install lock is held by another process")

// errWouldBlock is returned by tryLockFn when the lock is held elsewhere.
var errWouldBlock = errors.New("lock would block")

var tryLockFn = tryLock
var unlockFn = unlock
var lockSleep = time.Sleep

var (
	lockWaitTimeout = 30 * time.Second
	lockPollEvery   = 100 * time.Millisecond
)

// Lock is a held advisory lock. Release it when done.
type Lock struct {
	file *os.File
	path string
}

// With acquires the lock at path, runs fn, and releases the lock.
func With(path string, fn func() error) error {
	l, err := Acquire(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = l.Release()
	}()
	return fn()
}

// Acquire opens or creates path and takes an exclusive lock on it, polling until
// the lock frees up or the wait timeout passes.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	if err := waitForLock(file); err != nil {
		_ = file.Close()
		if errors.Is(err, ErrBusy) {
			return nil, err
		}
		return nil, fmt.Errorf(messages.LockFmt, path, err)
	}
	return &Lock{file: file, path: path}, nil
}

// Probe reports whether the lock at path is currently held by another process.
// It never waits and leaves the lock free when it returns. A missing lock file is free.
func Probe(path string) (bool, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.LockOpenFmt, path, err)
	}
	defer func() {
		_ = file.Close()
	}()
	err = tryLockFn(file)
	if errors.Is(err, errWouldBlock) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf(messages.LockFmt, path, err)
	}
	return false, unlockFn(file)
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. The file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	if err := unlockFn(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func waitForLock(file *os.File) error {
	deadline := time.Now().Add(lockWaitTimeout)
	for {
		err := tryLockFn(file)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errWouldBlock) {
			return err
		}
		if time.Now().After(deadline) {
			return fmt.Errorf(messages.LockTimeoutFmt, lockWaitTimeout, ErrBusy)
		}
		lockSleep(lockPollEvery)
	}
}
