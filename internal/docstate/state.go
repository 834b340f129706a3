// Package docstate holds the single document shared by every request.
// All access, reads included, is serialized through one exclusive lock.
package docstate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
)

// Document is the loaded file plus what is known about its origin.
type Document struct {
	File     *a2l.File
	Warnings []a2l.Warning
	// Path is the workspace path last loaded or saved; empty for text loads.
	Path string
	// Checksum is the SHA-256 of the bytes last read from or written to Path.
	Checksum string
	// Revision counts successful mutations since the load.
	Revision uint64
}

// State guards the current Document. A panic inside a critical section
// poisons the state: every later access fails with ErrLockUnavailable until
// a new document is loaded.
type State struct {
	sem      *semaphore.Weighted
	timeout  time.Duration
	doc      *Document
	poisoned bool
}

// New returns an empty State. Acquisition gives up after timeout; zero waits
// until the caller's context ends.
func New(timeout time.Duration) *State {
	return &State{sem: semaphore.NewWeighted(1), timeout: timeout}
}

func (s *State) acquire(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrLockUnavailable, err)
	}
	return nil
}

// Replace installs doc as the current document, dropping the previous one
// and clearing any poison.
func (s *State) Replace(ctx context.Context, doc *Document) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.sem.Release(1)
	s.doc = doc
	s.poisoned = false
	return nil
}

// Read runs fn with the current document. fn must not mutate File; it may
// update the origin fields (Path, Checksum).
func (s *State) Read(ctx context.Context, fn func(*Document) error) error {
	return s.run(ctx, false, fn)
}

// Write runs fn with the current document and bumps its revision when fn
// succeeds. fn must validate before it mutates.
func (s *State) Write(ctx context.Context, fn func(*Document) error) error {
	return s.run(ctx, true, fn)
}

func (s *State) run(ctx context.Context, write bool, fn func(*Document) error) (err error) {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.sem.Release(1)

	if s.poisoned {
		return fmt.Errorf("%w: poisoned by an earlier failure", apperr.ErrLockUnavailable)
	}
	if s.doc == nil {
		return apperr.ErrNoDocument
	}

	defer func() {
		if r := recover(); r != nil {
			s.poisoned = true
			slog.Error("docstate: panic in critical section", slog.Any("panic", r))
			err = fmt.Errorf("%w: %v", apperr.ErrLockUnavailable, r)
		}
	}()

	if err := fn(s.doc); err != nil {
		return err
	}
	if write {
		s.doc.Revision++
	}
	return nil
}

// Query runs fn under Read and returns its value.
func Query[T any](ctx context.Context, s *State, fn func(*Document) (T, error)) (T, error) {
	var out T
	err := s.Read(ctx, func(d *Document) error {
		v, err := fn(d)
		out = v
		return err
	})
	return out, err
}

// Mutate runs fn under Write and returns its value.
func Mutate[T any](ctx context.Context, s *State, fn func(*Document) (T, error)) (T, error) {
	var out T
	err := s.Write(ctx, func(d *Document) error {
		v, err := fn(d)
		out = v
		return err
	})
	return out, err
}
