package usecase

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/novahq/novapass/internal/notification/entity"
	"github.com/novahq/novapass/internal/pkg/clock"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/mail"
	"github.com/novahq/novapass/internal/pkg/uid"
	"github.com/novahq/novapass/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

type repoDB interface {
	CreateDeliveryLog(ctx context.Context, in entity.CreateDeliveryLog) error
	UpdateDeliveryLogStatus(ctx context.Context, in entity.UpdateDeliveryLog) error
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	ins       instrument.Instrumentation

	sentCounter   metric.Int64Counter
	failedCounter metric.Int64Counter
	sentTotal     atomic.Int64
	failedTotal   atomic.Int64
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("notification.usecase")

	sent, err := meter.Int64Counter("notification.email.sent")
	if err != nil {
		slog.Error("failed to create sent counter", "error", err)
	}
	failed, err := meter.Int64Counter("notification.email.failed")
	if err != nil {
		slog.Error("failed to create failed counter", "error", err)
	}

	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMail:      dep.RepoMail,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		validator:     dep.Validator,
		ins:           dep.Instrument,
		sentCounter:   sent,
		failedCounter: failed,
	}
}

// DeliveryTotals returns how many emails this process has sent and failed.
func (s *Usecase) DeliveryTotals() (sent, failed int64) {
	return s.sentTotal.Load(), s.failedTotal.Load()
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
