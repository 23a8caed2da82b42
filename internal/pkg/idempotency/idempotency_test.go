package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupTracker(t *testing.T) *StateTracker {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}

	uri, err := ctr.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	opt, err := goredis.ParseURL(uri)
	if err != nil {
		t.Fatalf("parse redis url: %v", err)
	}

	client := goredis.NewClient(opt)
	t.Cleanup(func() { client.Close() })

	return New(client, "")
}

func TestExecRunsOnce(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	var runs int
	fn := func(context.Context) error {
		runs++
		return nil
	}

	if err := tracker.Exec(ctx, "op:1", fn, WithLockDuration(time.Minute), WithStateTTL(time.Minute)); err != nil {
		t.Fatalf("first exec: %v", err)
	}
	if err := tracker.Exec(ctx, "op:1", fn); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("expected ErrAlreadyCompleted, got %v", err)
	}
	if runs != 1 {
		t.Fatalf("expected fn to run once, ran %d times", runs)
	}
}

func TestExecPropagatesAndRemembersFailure(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	wantErr := errors.New("downstream unavailable")
	err := tracker.Exec(ctx, "op:2", func(context.Context) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error, got %v", err)
	}

	// state stays failed until the TTL lapses
	err = tracker.Exec(ctx, "op:2", func(context.Context) error { return nil })
	if !errors.Is(err, ErrAlreadyFailed) {
		t.Fatalf("expected ErrAlreadyFailed, got %v", err)
	}
}

func TestExecConcurrentInvocation(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- tracker.Exec(ctx, "op:3", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	err := tracker.Exec(ctx, "op:3", func(context.Context) error { return nil })
	if !errors.Is(err, ErrAlreadyInProgress) {
		t.Fatalf("expected ErrAlreadyInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first exec: %v", err)
	}
}

func TestAcquireAfterLockExpiry(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "op:4", 100*time.Millisecond)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if state != StateNone {
		t.Fatalf("expected StateNone, got %s", state)
	}

	time.Sleep(200 * time.Millisecond)

	state, err = tracker.Acquire(ctx, "op:4", time.Minute)
	if err != nil {
		t.Fatalf("acquire after expiry: %v", err)
	}
	if state != StateNone {
		t.Fatalf("expected lock to be re-acquirable after expiry, got %s", state)
	}
}

func TestMarkCompletedOverwritesLock(t *testing.T) {
	tracker := setupTracker(t)
	ctx := context.Background()

	if _, err := tracker.Acquire(ctx, "op:5", time.Minute); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := tracker.MarkCompleted(ctx, "op:5", time.Minute); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	state, err := tracker.Acquire(ctx, "op:5", time.Minute)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if state != StateCompleted {
		t.Fatalf("expected StateCompleted, got %s", state)
	}
}
