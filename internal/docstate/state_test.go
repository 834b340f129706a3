package docstate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/testutil"
)

func loaded(t *testing.T, timeout time.Duration) *State {
	t.Helper()
	f, _, err := a2l.Load(testutil.SampleA2L)
	require.NoError(t, err)
	s := New(timeout)
	require.NoError(t, s.Replace(context.Background(), &Document{File: f}))
	return s
}

func TestNoDocument(t *testing.T) {
	s := New(0)
	ctx := context.Background()

	err := s.Read(ctx, func(*Document) error { t.Fatal("fn must not run"); return nil })
	assert.True(t, errors.Is(err, apperr.ErrNoDocument))

	_, err = Mutate(ctx, s, func(*Document) (int, error) { return 1, nil })
	assert.True(t, errors.Is(err, apperr.ErrNoDocument))
}

func TestQueryAndRevision(t *testing.T) {
	s := loaded(t, 0)
	ctx := context.Background()

	name, err := Query(ctx, s, func(d *Document) (string, error) { return d.File.Project.Name, nil })
	require.NoError(t, err)
	assert.Equal(t, "Demo", name)

	rev, err := Mutate(ctx, s, func(d *Document) (uint64, error) {
		d.File.Project.Name = "Changed"
		return d.Revision, nil
	})
	require.NoError(t, err)
	assert.Zero(t, rev)

	failed := errors.New("validation")
	err = s.Write(ctx, func(*Document) error { return failed })
	assert.ErrorIs(t, err, failed)

	rev, err = Query(ctx, s, func(d *Document) (uint64, error) { return d.Revision, nil })
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev, "only successful writes bump the revision")
}

func TestPanicPoisonsUntilReplace(t *testing.T) {
	s := loaded(t, 0)
	ctx := context.Background()

	err := s.Write(ctx, func(*Document) error { panic("boom") })
	assert.True(t, errors.Is(err, apperr.ErrLockUnavailable))
	assert.Contains(t, err.Error(), "boom")

	err = s.Read(ctx, func(*Document) error { return nil })
	assert.True(t, errors.Is(err, apperr.ErrLockUnavailable))

	f, _, err := a2l.Load(testutil.EmptyModuleA2L)
	require.NoError(t, err)
	require.NoError(t, s.Replace(ctx, &Document{File: f}))

	name, err := Query(ctx, s, func(d *Document) (string, error) { return d.File.Project.Name, nil })
	require.NoError(t, err)
	assert.Equal(t, "Bare", name)
}

func TestLockTimeout(t *testing.T) {
	s := loaded(t, 20*time.Millisecond)
	ctx := context.Background()

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.Read(ctx, func(*Document) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := s.Read(ctx, func(*Document) error { return nil })
	assert.True(t, errors.Is(err, apperr.ErrLockUnavailable))

	close(release)
	require.NoError(t, <-done)
	assert.NoError(t, s.Read(ctx, func(*Document) error { return nil }))
}

func TestCancelledContext(t *testing.T) {
	s := loaded(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An uncontended semaphore may still be acquired with a done context,
	// so hold it first.
	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = s.Read(context.Background(), func(*Document) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	defer close(release)

	err := s.Read(ctx, func(*Document) error { return nil })
	assert.True(t, errors.Is(err, apperr.ErrLockUnavailable))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestWritesAreSerialized(t *testing.T) {
	s := loaded(t, 0)
	ctx := context.Background()

	var g errgroup.Group
	for range 50 {
		g.Go(func() error {
			return s.Write(ctx, func(d *Document) error {
				d.File.Project.Module[0].Measurement[0].Resolution++
				return nil
			})
		})
	}
	require.NoError(t, g.Wait())

	got, err := Query(ctx, s, func(d *Document) (uint16, error) {
		return d.File.Project.Module[0].Measurement[0].Resolution, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint16(51), got)
}
