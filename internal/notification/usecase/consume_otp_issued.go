package usecase

import (
	"context"
	"log/slog"
	"time"
)

const passwordResetSubject = "Password Reset Code"

const passwordResetBodyTpl = `<p>Hello,</p>
<p>Your password reset code is <b>{{.code}}</b>. It expires in {{.expires_in_minutes}} minutes.</p>
<p>If you did not request this, you can safely ignore this email.</p>`

type ConsumeOTPIssuedInput struct {
	UserID    int64  `validate:"required,gt=0"`
	Email     string `validate:"required,email"`
	Code      string `validate:"required"`
	ExpiresAt int64  `validate:"required"`
}

// ConsumeOTPIssued turns an otp-issued event into a password reset email.
// Delivery is best-effort: every failure is logged and recorded, none is
// returned, so the broker never redelivers a message whose code may already
// be consumed.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	expiresIn := time.Unix(in.ExpiresAt, 0).Sub(s.clock.Now())
	if expiresIn <= 0 {
		slog.WarnContext(ctx, "otp already expired, skipping email", "user_id", in.UserID)
		return nil
	}

	body, err := s.renderTemplate("password_reset", passwordResetBodyTpl, map[string]any{
		"code":               in.Code,
		"expires_in_minutes": int(expiresIn.Round(time.Minute).Minutes()),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render email body", "user_id", in.UserID, "error", err)
		return nil
	}

	s.sendEmailNotification(ctx, emailNotificationInput{
		UserID:   in.UserID,
		Email:    in.Email,
		Subject:  passwordResetSubject,
		HTMLBody: body,
	})

	return nil
}
