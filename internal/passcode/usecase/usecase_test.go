package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/novahq/novapass/internal/passcode/entity"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/goerror"
	"github.com/novahq/novapass/internal/pkg/goroutine"
	"github.com/novahq/novapass/internal/pkg/hash"
	"github.com/novahq/novapass/internal/pkg/idempotency"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/otpcode"
	"github.com/novahq/novapass/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

// fakeRepo is an in-memory repoDB that mirrors the conditional semantics of
// the SQL adapter: supersession on insert, capped increments, and
// single-winner consumption.
type fakeRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
	otps  []*entity.OTP

	errGetUser   error
	errCreateOTP error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[string]*entity.User)}
}

func (r *fakeRepo) addUser(u entity.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.Email] = &u
}

func (r *fakeRepo) addOTP(o entity.OTP) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.otps = append(r.otps, &o)
}

func (r *fakeRepo) otpByID(id int64) *entity.OTP {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == id {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (r *fakeRepo) GetUserByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errGetUser != nil {
		return nil, r.errGetUser
	}
	u, ok := r.users[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetActiveOTPByUserID(_ context.Context, userID int64, now time.Time) (*entity.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.OTP
	for _, o := range r.otps {
		if o.UserID != userID || !o.ActiveAt(now) {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) || (o.CreatedAt.Equal(latest.CreatedAt) && o.ID > latest.ID) {
			latest = o
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRepo) CreateOTP(_ context.Context, in entity.NewOTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.errCreateOTP != nil {
		return r.errCreateOTP
	}
	for _, o := range r.otps {
		if o.UserID == in.UserID && !o.IsUsed {
			o.IsUsed = true
		}
	}
	r.otps = append(r.otps, &entity.OTP{
		ID:        in.ID,
		UserID:    in.UserID,
		Code:      in.Code,
		CreatedAt: in.CreatedAt,
		ExpiresAt: in.ExpiresAt,
	})
	return nil
}

func (r *fakeRepo) IncrementOTPAttempts(_ context.Context, otpID int64, maxAttempts int16) (int16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == otpID && !o.IsUsed && o.Attempts < maxAttempts {
			o.Attempts++
			return o.Attempts, nil
		}
	}
	return 0, goerror.ErrNotFound
}

func (r *fakeRepo) ConsumeOTP(_ context.Context, otpID int64, now time.Time, maxAttempts int16) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.otps {
		if o.ID == otpID && o.ActiveAt(now) && o.Attempts < maxAttempts {
			o.IsUsed = true
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (r *fakeRepo) UpdateUserPassword(_ context.Context, userID int64, hashed string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == userID {
			u.Password = hashed
			return nil
		}
	}
	return goerror.ErrNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []OTPIssuedEvent
	err    error
}

func (p *fakePublisher) PublishOTPIssued(_ context.Context, msg OTPIssuedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, msg)
	return nil
}

func (p *fakePublisher) published() []OTPIssuedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]OTPIssuedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// memTracker mirrors the redis-backed state tracker for tests.
type memTracker struct {
	mu     sync.Mutex
	states map[string]idempotency.State
}

func newMemTracker() *memTracker {
	return &memTracker{states: make(map[string]idempotency.State)}
}

func (m *memTracker) setState(key string, st idempotency.State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[key] = st
}

func (m *memTracker) Acquire(_ context.Context, key string, _ time.Duration) (idempotency.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[key]; ok {
		return st, nil
	}
	m.states[key] = idempotency.StateInProgress
	return idempotency.StateNone, nil
}

func (m *memTracker) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	m.setState(key, idempotency.StateCompleted)
	return nil
}

func (m *memTracker) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	m.setState(key, idempotency.StateFailed)
	return nil
}

func (m *memTracker) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	state, err := m.Acquire(ctx, key, 0)
	if err != nil {
		return err
	}

	switch state {
	case idempotency.StateInProgress:
		return idempotency.ErrAlreadyInProgress
	case idempotency.StateCompleted:
		return idempotency.ErrAlreadyCompleted
	case idempotency.StateFailed:
		return idempotency.ErrAlreadyFailed
	}

	if err := fn(ctx); err != nil {
		_ = m.MarkFailed(ctx, key, 0)
		return err
	}
	return m.MarkCompleted(ctx, key, 0)
}

type fixture struct {
	uc     *Usecase
	repo   *fakeRepo
	pub    *fakePublisher
	idemp  *memTracker
	worker *goroutine.Manager
	bcrypt hash.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
modules:
  passcode:
    otp_ttl_minutes: 5
    max_attempts: 3
`))
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("build validator: %v", err)
	}

	gen, err := otpcode.NewNumeric(6)
	if err != nil {
		t.Fatalf("build otp generator: %v", err)
	}

	f := &fixture{
		repo:   newFakeRepo(),
		pub:    &fakePublisher{},
		idemp:  newMemTracker(),
		worker: goroutine.NewManager(4),
		bcrypt: hash.NewBcrypt(bcrypt.MinCost, ""),
	}

	f.uc = New(Dependency{
		RepoDB:        f.repo,
		RepoMessaging: f.pub,
		Idempotency:   f.idemp,
		Validator:     v10,
		Config:        cfg,
		Bcrypt:        f.bcrypt,
		OTP:           gen,
		UID:           &seqID{},
		Clock:         fixedClock{now: testNow},
		Instrument:    instrument.NewNoop(),
		Goroutine:     f.worker,
	})

	return f
}

func (f *fixture) activeUser(t *testing.T, id int64, email string) {
	t.Helper()
	f.repo.addUser(entity.User{ID: id, Email: email, Status: entity.UserStatusActive})
}

func (f *fixture) activeOTP(t *testing.T, id, userID int64, code string) {
	t.Helper()
	f.repo.addOTP(entity.OTP{
		ID:        id,
		UserID:    userID,
		Code:      code,
		CreatedAt: testNow.Add(-time.Minute),
		ExpiresAt: testNow.Add(4 * time.Minute),
	})
}

func assertBusinessCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()
	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected goerror, got %T: %v", err, err)
	}
	if ge.Code() != want {
		t.Fatalf("expected code %s, got %s (err=%v)", want, ge.Code(), err)
	}
}
