package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/novahq/novapass/internal/notification/entity"
	"github.com/novahq/novapass/internal/pkg/mail"
	"github.com/sethvargo/go-retry"
)

type emailNotificationInput struct {
	UserID   int64
	Email    string
	Subject  string
	HTMLBody string
}

func (s *Usecase) sendEmailNotification(ctx context.Context, in emailNotificationInput) {
	logID := s.uid.Generate()
	if err := s.repoDB.CreateDeliveryLog(ctx, entity.CreateDeliveryLog{
		ID:        logID,
		UserID:    in.UserID,
		Channel:   entity.ChannelEmail,
		Recipient: in.Email,
		Subject:   in.Subject,
		Status:    entity.DeliveryStatusQueued,
		CreatedAt: s.clock.Now(),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery log", "user_id", in.UserID, "error", err)
		return
	}

	mailErr := s.sendWithRetry(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  in.Subject,
		HTMLBody: in.HTMLBody,
	})

	if mailErr == nil {
		s.sentCounter.Add(ctx, 1)
		s.sentTotal.Inc()
		if err := s.repoDB.UpdateDeliveryLogStatus(ctx, entity.UpdateDeliveryLog{
			ID:     logID,
			Status: entity.DeliveryStatusSent,
		}); err != nil {
			slog.ErrorContext(ctx, "failed to repo update delivery log status sent", "log_id", logID, "error", err)
		}
		return
	}

	s.failedCounter.Add(ctx, 1)
	s.failedTotal.Inc()

	nextRetry := s.clock.Now().Add(s.cfg.GetMinute("modules.notification.retry_hint_minutes"))
	if err := s.repoDB.UpdateDeliveryLogStatus(ctx, entity.UpdateDeliveryLog{
		ID:            logID,
		Status:        entity.DeliveryStatusFailed,
		ProviderError: mailErr.Error(),
		NextRetryAt:   &nextRetry,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status failed", "log_id", logID, "error", err)
	}

	slog.ErrorContext(ctx, "failed to send notification email", "log_id", logID, "user_id", in.UserID, "error", mailErr)
}

// sendWithRetry retries transient provider failures with fibonacci backoff
// before the attempt is written off as failed.
func (s *Usecase) sendWithRetry(ctx context.Context, msg mail.Message) error {
	maxRetries := s.cfg.GetInt64("modules.notification.send_max_retries")
	if maxRetries <= 0 {
		maxRetries = 3
	}

	b := retry.NewFibonacci(500 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(uint64(maxRetries), b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := s.repoMail.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
