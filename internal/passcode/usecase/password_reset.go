package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/novahq/novapass/internal/passcode/entity"
	"github.com/novahq/novapass/internal/pkg/goerror"
	"github.com/novahq/novapass/internal/pkg/idempotency"
)

type PasswordResetInput struct {
	Email       string `validate:"required,email"`
	Code        string `validate:"required,otpcode"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset consumes the active passcode and writes the new credential.
// The whole step runs under an idempotency guard keyed by user, so a retried
// or concurrent submission cannot race the consume-then-write sequence.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.verifyUserOTP(ctx, in.Email, in.Code, false)
	if err != nil {
		return err
	}

	err = s.idemp.Exec(ctx, fmt.Sprintf("password_reset:%d", user.ID), func(ctx context.Context) error {
		return s.resetPassword(ctx, user.ID, in.Code, in.NewPassword)
	}, idempotency.WithLockDuration(s.otpTTL()), idempotency.WithStateTTL(s.otpTTL()))

	switch {
	case err == nil:
		return nil
	case errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.WarnContext(ctx, "password reset already in progress", "user_id", user.ID)
		return goerror.NewBusiness("a password reset is already being processed", goerror.CodeConflict)
	case errors.Is(err, idempotency.ErrAlreadyCompleted), errors.Is(err, idempotency.ErrAlreadyFailed):
		slog.WarnContext(ctx, "password reset replay rejected", "user_id", user.ID, "state", err)
		return errInvalidOTP()
	default:
		return err
	}
}

func (s *Usecase) resetPassword(ctx context.Context, userID int64, code, newPassword string) error {
	if err := s.verifyOTP(ctx, userID, code, true); err != nil {
		switch {
		case errors.Is(err, entity.ErrOTPNotActive),
			errors.Is(err, entity.ErrOTPLockedOut),
			errors.Is(err, entity.ErrOTPMismatch):
			slog.WarnContext(ctx, "otp consumption rejected", "user_id", userID, "reason", err)
			return errInvalidOTP()
		default:
			slog.ErrorContext(ctx, "otp consumption failed", "user_id", userID, "error", err)
			return goerror.NewServer(err)
		}
	}

	newHash, err := s.bcrypt.Hash(newPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash new password", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.UpdateUserPassword(ctx, userID, string(newHash)); err != nil {
		// the code is already burned; the user must request a fresh one
		slog.ErrorContext(ctx, "failed to update user password after otp consumption", "user_id", userID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
