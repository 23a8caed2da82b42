// Package app wires dependencies and manages the service lifecycle.
package app

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novahq/novapass/internal/passcode/usecase"
	"github.com/novahq/novapass/internal/pkg/clock"
	"github.com/novahq/novapass/internal/pkg/config"
	"github.com/novahq/novapass/internal/pkg/goroutine"
	"github.com/novahq/novapass/internal/pkg/hash"
	"github.com/novahq/novapass/internal/pkg/idempotency"
	"github.com/novahq/novapass/internal/pkg/instrument"
	"github.com/novahq/novapass/internal/pkg/mail"
	"github.com/novahq/novapass/internal/pkg/messaging"
	"github.com/novahq/novapass/internal/pkg/otpcode"
	"github.com/novahq/novapass/internal/pkg/uid"
	"github.com/novahq/novapass/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	otp       otpcode.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// modules
	passcodeUC *usecase.Usecase

	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initModules()
	app.initClosers()

	return app
}

// Passcode returns the passcode usecase, the programmatic API of the service.
func (a *App) Passcode() *usecase.Usecase {
	return a.passcodeUC
}
