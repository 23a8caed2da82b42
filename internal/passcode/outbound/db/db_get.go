package db

import (
	"context"
	"time"

	"github.com/novahq/novapass/internal/passcode/entity"
)

const queryGetUserByEmail = `
SELECT id, email, password, status, created_at
FROM users
WHERE email = $1 AND deleted_at IS NULL`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	err = s.conn.QueryRow(ctx, queryGetUserByEmail, email).
		Scan(&user.ID, &user.Email, &user.Password, &user.Status, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &user, nil
}

const queryGetActiveOTPByUserID = `
SELECT id, user_id, code, attempts, is_used, created_at, expires_at
FROM otps
WHERE user_id = $1 AND is_used = FALSE AND expires_at > $2
ORDER BY created_at DESC, id DESC
LIMIT 1`

// GetActiveOTPByUserID returns the newest unused, unexpired passcode of the
// user. The secondary id ordering keeps the pick deterministic when two rows
// share a created_at timestamp.
func (s *DB) GetActiveOTPByUserID(ctx context.Context, userID int64, now time.Time) (_ *entity.OTP, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveOTPByUserID")
	defer func() { s.endSpan(span, err) }()

	var otp entity.OTP
	err = s.conn.QueryRow(ctx, queryGetActiveOTPByUserID, userID, now).
		Scan(&otp.ID, &otp.UserID, &otp.Code, &otp.Attempts, &otp.IsUsed, &otp.CreatedAt, &otp.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &otp, nil
}
