package messaging

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubMessage struct {
	mu     sync.Mutex
	acked  int
	nacked int
}

func (m *stubMessage) Body() []byte                  { return []byte("{}") }
func (m *stubMessage) Headers() []Header             { return nil }
func (m *stubMessage) Attributes() map[string]string { return nil }
func (m *stubMessage) ID() string                    { return "" }
func (m *stubMessage) Source() string                { return "stub" }
func (m *stubMessage) Timestamp() time.Time          { return time.Time{} }

func (m *stubMessage) Ack(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked++
	return nil
}

func (m *stubMessage) Nack(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nacked++
	return nil
}

func TestCallHandlerWithRecoverPassesThrough(t *testing.T) {
	wantErr := errors.New("handler failed")

	if err := callHandlerWithRecover(context.Background(), "test", func() error { return nil }); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := callHandlerWithRecover(context.Background(), "test", func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestCallHandlerWithRecoverTurnsPanicIntoError(t *testing.T) {
	err := callHandlerWithRecover(context.Background(), "test", func() error { panic("boom") })
	if err == nil {
		t.Fatal("expected error from panicking handler")
	}
}

func TestAutoRespond(t *testing.T) {
	msg := &stubMessage{}

	if err := autoRespond(context.Background(), msg, nil); err != nil {
		t.Fatalf("autoRespond ack: %v", err)
	}
	if err := autoRespond(context.Background(), msg, errors.New("failed")); err != nil {
		t.Fatalf("autoRespond nack: %v", err)
	}

	if msg.acked != 1 || msg.nacked != 1 {
		t.Fatalf("expected 1 ack and 1 nack, got %d/%d", msg.acked, msg.nacked)
	}
}
