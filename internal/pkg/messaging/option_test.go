package messaging

import (
	"context"
	"testing"
)

func TestNewConsumeOptions(t *testing.T) {
	co := newConsumeOptions(
		WithConcurrency(8),
		WithGroup("workers"),
		WithChannel("workers"),
		WithQueueGroup("workers"),
		WithSubscription("workers-sub"),
		WithAutoAck(true),
		WithMaxInFlight(16),
		nil,
	)

	if co.concurrency != 8 || !co.autoAck || co.maxInFlight != 16 {
		t.Fatalf("unexpected options: %+v", co)
	}
	if co.group != "workers" || co.channel != "workers" || co.queueGroup != "workers" || co.subscription != "workers-sub" {
		t.Fatalf("unexpected naming options: %+v", co)
	}
}

func TestConcurrencyOrDefault(t *testing.T) {
	if got := concurrencyOrDefault(0); got != 1 {
		t.Fatalf("expected default 1, got %d", got)
	}
	if got := concurrencyOrDefault(-5); got != 1 {
		t.Fatalf("expected default 1, got %d", got)
	}
	if got := concurrencyOrDefault(4); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestNewFromDriverUnknown(t *testing.T) {
	if _, err := NewFromDriver(context.Background(), "rabbitmq", FactoryOptions{}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
