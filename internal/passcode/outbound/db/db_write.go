package db

import (
	"context"
	"time"

	"github.com/novahq/novapass/internal/pkg/goerror"
)

const queryIncrementOTPAttempts = `
UPDATE otps
SET attempts = attempts + 1
WHERE id = $1 AND is_used = FALSE AND attempts < $2
RETURNING attempts`

// IncrementOTPAttempts bumps the attempt counter atomically. The conditions
// make concurrent consume/reissue races visible as goerror.ErrNotFound and
// cap the counter at maxAttempts, so increments are never lost and the row
// never overshoots the budget.
func (s *DB) IncrementOTPAttempts(ctx context.Context, otpID int64, maxAttempts int16) (_ int16, err error) {
	ctx, span := s.startSpan(ctx, "IncrementOTPAttempts")
	defer func() { s.endSpan(span, err) }()

	var attempts int16
	err = s.conn.QueryRow(ctx, queryIncrementOTPAttempts, otpID, maxAttempts).Scan(&attempts)
	if err != nil {
		return 0, s.mapError(err)
	}

	return attempts, nil
}

const queryConsumeOTP = `
UPDATE otps
SET is_used = TRUE
WHERE id = $1 AND is_used = FALSE AND expires_at > $2 AND attempts < $3`

// ConsumeOTP marks the passcode used. Zero affected rows means the row
// stopped being consumable between verification and consumption.
func (s *DB) ConsumeOTP(ctx context.Context, otpID int64, now time.Time, maxAttempts int16) (err error) {
	ctx, span := s.startSpan(ctx, "ConsumeOTP")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryConsumeOTP, otpID, now, maxAttempts)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

const queryUpdateUserPassword = `
UPDATE users
SET password = $2, updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL`

func (s *DB) UpdateUserPassword(ctx context.Context, userID int64, hash string) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateUserPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateUserPassword, userID, hash)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
