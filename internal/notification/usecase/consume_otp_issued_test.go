package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/novahq/novapass/internal/notification/entity"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/mail"
	"github.com/novahq/novapass/internal/pkg/validator"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticID struct{ id int64 }

func (s staticID) Generate() int64 { return s.id }

type fakeLogRepo struct {
	mu      sync.Mutex
	created []entity.CreateDeliveryLog
	updated []entity.UpdateDeliveryLog

	errCreate error
}

func (r *fakeLogRepo) CreateDeliveryLog(_ context.Context, in entity.CreateDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errCreate != nil {
		return r.errCreate
	}
	r.created = append(r.created, in)
	return nil
}

func (r *fakeLogRepo) UpdateDeliveryLogStatus(_ context.Context, in entity.UpdateDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, in)
	return nil
}

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mail.Message
	failures int // fail this many sends before succeeding
}

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newTestUsecase(t *testing.T, repo *fakeLogRepo, mailer *fakeMailer) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  notification:
    send_max_retries: 2
    retry_hint_minutes: 5
`))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	return NewNotification(Dependency{
		RepoDB:     repo,
		RepoMail:   mailer,
		Config:     cfg,
		UID:        staticID{id: 42},
		Clock:      fixedClock{now: testNow},
		Validator:  v10,
		Instrument: instrument.NewNoop(),
	})
}

func validInput() ConsumeOTPIssuedInput {
	return ConsumeOTPIssuedInput{
		UserID:    7,
		Email:     "alice@example.com",
		Code:      "123456",
		ExpiresAt: testNow.Add(5 * time.Minute).Unix(),
	}
}

func TestConsumeOTPIssuedSendsEmail(t *testing.T) {
	repo := &fakeLogRepo{}
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, repo, mailer)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("ConsumeOTPIssued: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To[0] != "alice@example.com" || msg.Subject != passwordResetSubject {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if !strings.Contains(msg.HTMLBody, "123456") {
		t.Fatalf("body must contain the code: %q", msg.HTMLBody)
	}
	if !strings.Contains(msg.HTMLBody, "5 minutes") {
		t.Fatalf("body must mention expiry: %q", msg.HTMLBody)
	}

	if len(repo.created) != 1 || repo.created[0].Status != entity.DeliveryStatusQueued {
		t.Fatalf("expected queued delivery log, got %+v", repo.created)
	}
	if len(repo.updated) != 1 || repo.updated[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("expected sent delivery log, got %+v", repo.updated)
	}

	sent, failed := uc.DeliveryTotals()
	if sent != 1 || failed != 0 {
		t.Fatalf("expected totals (1,0), got (%d,%d)", sent, failed)
	}
}

func TestConsumeOTPIssuedRetriesTransientFailure(t *testing.T) {
	repo := &fakeLogRepo{}
	mailer := &fakeMailer{failures: 1}
	uc := newTestUsecase(t, repo, mailer)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("ConsumeOTPIssued: %v", err)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected retry to deliver the email, got %d sends", len(mailer.sent))
	}
	if len(repo.updated) != 1 || repo.updated[0].Status != entity.DeliveryStatusSent {
		t.Fatalf("expected sent delivery log after retry, got %+v", repo.updated)
	}
}

func TestConsumeOTPIssuedRecordsExhaustedFailure(t *testing.T) {
	repo := &fakeLogRepo{}
	mailer := &fakeMailer{failures: 10}
	uc := newTestUsecase(t, repo, mailer)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("delivery failures must not propagate: %v", err)
	}

	if len(repo.updated) != 1 {
		t.Fatalf("expected 1 status update, got %d", len(repo.updated))
	}
	upd := repo.updated[0]
	if upd.Status != entity.DeliveryStatusFailed {
		t.Fatalf("expected failed status, got %v", upd.Status)
	}
	if upd.ProviderError == "" {
		t.Fatal("expected provider error to be recorded")
	}
	if upd.NextRetryAt == nil || !upd.NextRetryAt.Equal(testNow.Add(5*time.Minute)) {
		t.Fatalf("expected retry hint at now+5m, got %v", upd.NextRetryAt)
	}

	sent, failed := uc.DeliveryTotals()
	if sent != 0 || failed != 1 {
		t.Fatalf("expected totals (0,1), got (%d,%d)", sent, failed)
	}
}

func TestConsumeOTPIssuedSkipsExpiredCode(t *testing.T) {
	repo := &fakeLogRepo{}
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, repo, mailer)

	in := validInput()
	in.ExpiresAt = testNow.Add(-time.Minute).Unix()

	if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
		t.Fatalf("ConsumeOTPIssued: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("expired code must not be mailed")
	}
	if len(repo.created) != 0 {
		t.Fatal("expired code must not create a delivery log")
	}
}

func TestConsumeOTPIssuedSwallowsInvalidPayload(t *testing.T) {
	repo := &fakeLogRepo{}
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, repo, mailer)

	in := validInput()
	in.Email = "not-an-email"

	if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
		t.Fatalf("invalid payload must not be returned as an error: %v", err)
	}
	if len(mailer.sent) != 0 || len(repo.created) != 0 {
		t.Fatal("invalid payload must not trigger delivery")
	}
}

func TestConsumeOTPIssuedCreateLogFailureSkipsSend(t *testing.T) {
	repo := &fakeLogRepo{errCreate: errors.New("db down")}
	mailer := &fakeMailer{}
	uc := newTestUsecase(t, repo, mailer)

	if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
		t.Fatalf("ConsumeOTPIssued: %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("send must be skipped when the delivery log cannot be created")
	}
}
