// Package passcode wires the OTP issuance, verification, and password reset
// flows.
package passcode

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novahq/novapass/internal/passcode/outbound/db"
	"github.com/novahq/novapass/internal/passcode/outbound/mq"
	"github.com/novahq/novapass/internal/passcode/usecase"
	"github.com/novahq/novapass/internal/pkg/clock"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/goroutine"
	"github.com/novahq/novapass/internal/pkg/hash"
	"github.com/novahq/novapass/internal/pkg/idempotency"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/messaging"
	"github.com/novahq/novapass/internal/pkg/otpcode"
	"github.com/novahq/novapass/internal/pkg/uid"
	"github.com/novahq/novapass/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	Bcrypt      hash.Hash                  `validate:"required"`
	OTP         otpcode.Generator          `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

// New builds the module and returns its usecase, the API the rest of the
// process calls into.
func New(dep Dependency) (*usecase.Usecase, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        repoDB,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		OTP:           dep.OTP,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	return uc, nil
}
