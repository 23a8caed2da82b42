package goroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestManagerRunsTasks(t *testing.T) {
	m := NewManager(4)

	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		m.Go(context.Background(), func(context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	if err := m.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if got := ran.Load(); got != 4 {
		t.Fatalf("expected 4 tasks to run, got %d", got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	m := NewManager(2)

	wantErr := errors.New("task failed")
	m.Go(context.Background(), func(context.Context) error { return wantErr })
	m.Go(context.Background(), func(context.Context) error { return nil })

	if err := m.Wait(); !errors.Is(err, wantErr) {
		t.Fatalf("expected collected task error, got %v", err)
	}
}

func TestManagerRecoversPanic(t *testing.T) {
	m := NewManager(1)

	m.Go(context.Background(), func(context.Context) error { panic("boom") })

	if err := m.Wait(); err != nil {
		t.Fatalf("panic must be recovered, not collected: %v", err)
	}
}

func TestManagerRejectsAfterWait(t *testing.T) {
	m := NewManager(1)
	if err := m.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	var ran atomic.Bool
	m.Go(context.Background(), func(context.Context) error {
		ran.Store(true)
		return nil
	})

	if ran.Load() {
		t.Fatal("closed manager must not run new tasks")
	}
}

func TestManagerSkipsCanceledContext(t *testing.T) {
	m := NewManager(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	m.Go(ctx, func(context.Context) error {
		ran.Store(true)
		return nil
	})

	if err := m.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if ran.Load() {
		t.Fatal("task must not run on a canceled context")
	}
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager

	m.Go(context.Background(), func(context.Context) error { return nil })
	if err := m.Wait(); err != nil {
		t.Fatalf("nil manager Wait: %v", err)
	}
}
