// Package lockfile provides the cross-process exclusion marker that
// guarantees at most one rebalancing pass runs at a time. Window events can
// fire faster than a pass completes; a second invocation that finds the
// marker held aborts immediately rather than queuing, and the next external
// event retries naturally.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

// ErrAlreadyLocked signals expected contention: another invocation holds
// the lock. It is not a failure.
var ErrAlreadyLocked = errors.New("lock already held")

// Lock is a filesystem marker; presence means a rebalancing pass is in
// progress. It is the only genuinely global, cross-process resource in the
// system.
type Lock struct {
	path string
}

// New creates a Lock at the given marker path.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the marker location.
func (l *Lock) Path() string {
	return l.path
}

// Acquire atomically creates the marker, writing the holder's pid as a
// debugging aid. Returns ErrAlreadyLocked without blocking or retrying when
// the marker exists.
func (l *Lock) Acquire() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyLocked, l.path)
		}
		return fmt.Errorf("failed to create lock file: %w", err)
	}
	_, _ = f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	return f.Close()
}

// Release removes the marker. Releasing an unheld lock is a no-op: release
// runs unconditionally on every exit path, including termination signals,
// and must never fail for having nothing to do.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// ForceRelease unconditionally clears the marker regardless of who holds
// it. Used at manager startup to self-heal from a crash that left a stale
// lock behind.
func (l *Lock) ForceRelease() error {
	return l.Release()
}

// WithLock runs fn while holding the lock. The lock is released on normal
// return, on error, and on SIGINT/SIGTERM: a stuck marker would silently
// disable all future rebalancing, so the signal path re-raises after
// cleanup rather than swallowing the termination.
func (l *Lock) WithLock(fn func() error) error {
	if err := l.Acquire(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			_ = l.Release()
			signal.Stop(sigCh)
			if s, ok := sig.(syscall.Signal); ok {
				_ = syscall.Kill(os.Getpid(), s)
			} else {
				os.Exit(1)
			}
		case <-done:
		}
	}()

	defer func() {
		close(done)
		signal.Stop(sigCh)
		_ = l.Release()
	}()

	return fn()
}
