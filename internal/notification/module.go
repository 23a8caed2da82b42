// Package notification delivers out-of-band messages for events published by
// other modules. Delivery is best-effort and never feeds back into the
// publishing flow.
package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novahq/novapass/internal/notification/inbound"
	"github.com/novahq/novapass/internal/notification/outbound/db"
	"github.com/novahq/novapass/internal/notification/outbound/email"
	"github.com/novahq/novapass/internal/notification/usecase"
	"github.com/novahq/novapass/internal/pkg/clock"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/goroutine"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/mail"
	"github.com/novahq/novapass/internal/pkg/messaging"
	"github.com/novahq/novapass/internal/pkg/uid"
	"github.com/novahq/novapass/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Mail       mail.Mail
}

func New(dep Dependency) error {
	dbNotif := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:     dbNotif,
		RepoMail:   repoMail,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
