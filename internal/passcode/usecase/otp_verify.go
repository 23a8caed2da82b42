package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/novahq/novapass/internal/passcode/entity"
	"github.com/novahq/novapass/internal/pkg/goerror"
)

type OTPVerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,otpcode"`
}

// OTPVerify checks a code against the account's active passcode without
// consuming it, so the caller can collect a new password before the final
// reset. A matching code stays valid and its attempt counter is untouched.
func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) error {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if _, err := s.verifyUserOTP(ctx, in.Email, in.Code, false); err != nil {
		return err
	}
	return nil
}

// errInvalidOTP is the single outward shape of every verification failure.
// Which one actually happened is logged, never returned, so callers cannot
// distinguish unknown accounts from wrong or expired codes.
func errInvalidOTP() error {
	return goerror.NewBusiness("invalid or expired code", goerror.CodeUnauthorized)
}

func (s *Usecase) verifyUserOTP(ctx context.Context, email, code string, consume bool) (*entity.User, error) {
	user, err := s.repoDB.GetUserByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp presented for unavailable user", "email", email)
		return nil, errInvalidOTP()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by email", "email", email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.ensureUserStatusAllowed(ctx, user.ID, user.Status); err != nil {
		return nil, errInvalidOTP()
	}

	if err := s.verifyOTP(ctx, user.ID, code, consume); err != nil {
		switch {
		case errors.Is(err, entity.ErrOTPNotActive),
			errors.Is(err, entity.ErrOTPLockedOut),
			errors.Is(err, entity.ErrOTPMismatch):
			slog.WarnContext(ctx, "otp verification rejected", "user_id", user.ID, "reason", err)
			return nil, errInvalidOTP()
		default:
			slog.ErrorContext(ctx, "otp verification failed", "user_id", user.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
	}

	return user, nil
}

// verifyOTP applies the domain failure taxonomy against the user's active
// passcode. The lockout check runs before the comparison, so an exhausted
// passcode rejects even the correct code.
func (s *Usecase) verifyOTP(ctx context.Context, userID int64, code string, consume bool) error {
	now := s.clock.Now()
	maxAttempts := s.maxAttempts()

	otp, err := s.repoDB.GetActiveOTPByUserID(ctx, userID, now)
	if errors.Is(err, goerror.ErrNotFound) {
		return entity.ErrOTPNotActive
	}
	if err != nil {
		return err
	}

	if otp.Attempts >= maxAttempts {
		return entity.ErrOTPLockedOut
	}

	if subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		attempts, err := s.repoDB.IncrementOTPAttempts(ctx, otp.ID, maxAttempts)
		if errors.Is(err, goerror.ErrNotFound) {
			// lost a race against a concurrent consume or reissue
			return entity.ErrOTPNotActive
		}
		if err != nil {
			return err
		}
		if attempts >= maxAttempts {
			slog.WarnContext(ctx, "otp locked out after failed attempts", "user_id", userID, "attempts", attempts)
		}
		return entity.ErrOTPMismatch
	}

	if !consume {
		return nil
	}

	if err := s.repoDB.ConsumeOTP(ctx, otp.ID, now, maxAttempts); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			return entity.ErrOTPNotActive
		}
		return err
	}
	return nil
}
