package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novahq/novapass/internal/notification/entity"
	"github.com/novahq/novapass/internal/pkg/goerror"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}
	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

const queryCreateDeliveryLog = `
INSERT INTO notification_delivery_logs (id, user_id, channel, recipient, subject, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *DB) CreateDeliveryLog(ctx context.Context, in entity.CreateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDeliveryLog")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, queryCreateDeliveryLog,
		in.ID, in.UserID, in.Channel, in.Recipient, in.Subject, in.Status, in.CreatedAt)
	return s.mapError(err)
}

const queryUpdateDeliveryLogStatus = `
UPDATE notification_delivery_logs
SET status = $2, provider_error = $3, next_retry_at = $4, updated_at = NOW()
WHERE id = $1`

func (s *DB) UpdateDeliveryLogStatus(ctx context.Context, in entity.UpdateDeliveryLog) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryLogStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryUpdateDeliveryLogStatus,
		in.ID, in.Status, in.ProviderError, in.NextRetryAt)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
