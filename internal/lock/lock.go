// Craftwatch - Minecraft Server Population Monitor
// Copyright 2026 Craftwatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/craftwatch/craftwatch

// Package lock provides the single-instance guard for the scraper.
//
// The lock is an advisory, non-blocking file lock. It guarantees that at most
// one scrape cycle runs at a time on one host; it offers no cross-host
// guarantee. Contention is a skip-this-cycle policy, not a queueing policy:
// cycles are periodic, so a missed cycle is harmless and the next scheduled
// run is the retry mechanism.
package lock

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrAlreadyLocked is returned by Acquire when another process holds the lock.
var ErrAlreadyLocked = errors.New("another scraper instance is already running")

// Lock is a process-exclusive advisory lock backed by a filesystem path.
type Lock struct {
	path string
	fl   *flock.Flock
}

// New creates a lock on the given path. The lock is not held until Acquire.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the backing lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire attempts to take the lock without blocking. If another process
// holds it, ErrAlreadyLocked is returned immediately.
func (l *Lock) Acquire() error {
	fl := flock.New(l.path)
	locked, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock %s: %w", l.path, err)
	}
	if !locked {
		return ErrAlreadyLocked
	}
	l.fl = fl
	return nil
}

// Release unlocks and removes the lock file. It never fails: Release runs on
// cleanup paths where an error would mask the in-flight one or leave the lock
// stuck, so unlock and removal errors are swallowed.
func (l *Lock) Release() {
	if l.fl == nil {
		return
	}
	_ = l.fl.Unlock()
	_ = os.Remove(l.path)
	l.fl = nil
}

// Held reports whether this Lock instance currently holds the lock.
func (l *Lock) Held() bool {
	return l.fl != nil
}
