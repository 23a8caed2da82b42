package app

import (
	"log/slog"
	"os"

	"github.com/novahq/novapass/internal/notification"
	"github.com/novahq/novapass/internal/passcode"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.passcode.enabled") {
		uc, err := passcode.New(passcode.Dependency{
			DBConn:      a.dbConn,
			Goroutine:   a.goroutine,
			Idempotency: a.idemp,
			Messaging:   a.messaging,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			Bcrypt:      a.bcrypt,
			OTP:         a.otp,
			Clock:       a.clock,
			Validator:   a.validator,
		})
		if err != nil {
			slog.Error("failed to init module passcode", "error", err)
			os.Exit(1)
		}
		a.passcodeUC = uc
	}

	if a.config.GetBool("modules.notification.enabled") {
		err := notification.New(notification.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Mail:       a.mail,
		})
		if err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}
}
