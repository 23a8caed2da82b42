package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/novahq/novapass/internal/passcode/entity"
	"github.com/novahq/novapass/internal/pkg/clock"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/goerror"
	"github.com/novahq/novapass/internal/pkg/goroutine"
	"github.com/novahq/novapass/internal/pkg/hash"
	"github.com/novahq/novapass/internal/pkg/idempotency"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/otpcode"
	"github.com/novahq/novapass/internal/pkg/uid"
	"github.com/novahq/novapass/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// OTPIssuedEvent notifies out-of-band channels that a fresh passcode exists.
type OTPIssuedEvent struct {
	UserID    int64
	Email     string
	Code      string
	ExpiresAt time.Time
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetActiveOTPByUserID(ctx context.Context, userID int64, now time.Time) (*entity.OTP, error)

	// CreateOTP invalidates every unused passcode of the user and inserts the
	// new one in a single transaction.
	CreateOTP(ctx context.Context, in entity.NewOTP) error

	// IncrementOTPAttempts bumps the attempt counter only while the row is
	// unused and under the cap, returning the new count.
	IncrementOTPAttempts(ctx context.Context, otpID int64, maxAttempts int16) (int16, error)

	// ConsumeOTP marks the row used only while it is unused, unexpired, and
	// under the attempt cap.
	ConsumeOTP(ctx context.Context, otpID int64, now time.Time, maxAttempts int16) error

	UpdateUserPassword(ctx context.Context, userID int64, hash string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	otp           otpcode.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	OTP           otpcode.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		otp:           dep.OTP,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("passcode.usecase").Start(ctx, name)
}

func (s *Usecase) maxAttempts() int16 {
	if v := s.cfg.GetInt32("modules.passcode.max_attempts"); v > 0 {
		return int16(v)
	}
	return 3
}

func (s *Usecase) otpTTL() time.Duration {
	if d := s.cfg.GetMinute("modules.passcode.otp_ttl_minutes"); d > 0 {
		return d
	}
	return 5 * time.Minute
}

func (s *Usecase) ensureUserStatusAllowed(ctx context.Context, userID int64, status entity.UserStatus) error {
	switch status.Ensure() {
	case entity.UserStatusUnverified:
		slog.WarnContext(ctx, "user account is unverified", "user_id", userID)
		return goerror.NewBusiness("email not verified", goerror.CodeForbidden)

	case entity.UserStatusBanned:
		slog.WarnContext(ctx, "user account is banned", "user_id", userID)
		return goerror.NewBusiness("account is banned", goerror.CodeForbidden)

	case entity.UserStatusInactive:
		slog.WarnContext(ctx, "user account is deactivated", "user_id", userID)
		return goerror.NewBusiness("account is deactivated", goerror.CodeForbidden)

	case entity.UserStatusUnknown:
		slog.WarnContext(ctx, "user account status is unrecognized", "user_id", userID)
		return goerror.NewBusiness("account status is unrecognized", goerror.CodeForbidden)

	default:
		return nil
	}
}
