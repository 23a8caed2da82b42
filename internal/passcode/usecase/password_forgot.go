package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/novahq/novapass/internal/passcode/entity"
	"github.com/novahq/novapass/internal/pkg/goerror"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

// PasswordForgot issues a fresh passcode for the account behind the email and
// hands it to the notifier. It always succeeds for unknown or ineligible
// accounts so callers cannot probe which emails are registered.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) error {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.repoDB.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password reset requested for unavailable user", "email", in.Email)
		return nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		slog.WarnContext(ctx, "password reset requested for ineligible user", "user_id", user.ID, "status", user.Status.String())
		return nil
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.otpTTL())
	if err := s.repoDB.CreateOTP(ctx, entity.NewOTP{
		ID:        s.uid.Generate(),
		UserID:    user.ID,
		Code:      code,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create otp", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	msg := OTPIssuedEvent{
		UserID:    user.ID,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishOTPIssued(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "failed to publish otp issued", "user_id", msg.UserID, "error", err)
		}
		return nil
	})

	return nil
}
