package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/novahq/novapass/internal/passcode/entity"
)

const queryInvalidateUserOTPs = `
UPDATE otps
SET is_used = TRUE
WHERE user_id = $1 AND is_used = FALSE
RETURNING id`

const queryInsertOTP = `
INSERT INTO otps (id, user_id, code, attempts, is_used, created_at, expires_at)
VALUES ($1, $2, $3, 0, FALSE, $4, $5)`

// CreateOTP supersedes every unused passcode of the user and inserts the new
// one in a single transaction, so at no point are two codes redeemable.
func (s *DB) CreateOTP(ctx context.Context, in entity.NewOTP) (err error) {
	ctx, span := s.startSpan(ctx, "CreateOTP")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	rows, err := tx.Query(ctx, queryInvalidateUserOTPs, in.UserID)
	if err != nil {
		return s.mapError(err)
	}
	superseded, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return s.mapError(err)
	}

	if _, err := tx.Exec(ctx, queryInsertOTP, in.ID, in.UserID, in.Code, in.CreatedAt, in.ExpiresAt); err != nil {
		return s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return s.mapError(err)
	}

	if len(superseded) > 0 {
		slog.InfoContext(ctx, "superseded previous otps", "user_id", in.UserID, "otp_ids", superseded)
	}

	return nil
}
