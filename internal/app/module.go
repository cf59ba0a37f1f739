package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/twostep/internal/authority"
	"github.com/shandysiswandi/twostep/internal/diagnostic"
	"github.com/shandysiswandi/twostep/internal/identity"
	"github.com/shandysiswandi/twostep/internal/notification"
)

// initModules registers authority first since identity reaches it in-process.
func (a *App) initModules() {
	authorityUC, err := authority.New(authority.Dependency{
		DBConn:     a.dbConn,
		CacheConn:  a.cacheConn,
		Router:     a.router,
		Messaging:  a.messaging,
		Config:     a.config,
		Instrument: a.ins,
		HMAC:       a.hmac,
		OTP:        a.otp,
		Clock:      a.clock,
		Validator:  a.validator,
		JWT:        a.jwt,
	})
	if err != nil {
		slog.Error("failed to init module authority", "error", err)
		os.Exit(1)
	}

	if err := identity.New(a.ctx, identity.Dependency{
		DBConn:       a.dbConn,
		Router:       a.router,
		Authority:    authorityUC,
		PendingCodec: a.pendingCodec,
		Config:       a.config,
		Instrument:   a.ins,
		UID:          a.uid,
		UUID:         a.uuid,
		Password:     a.password,
		OTP:          a.otp,
		Clock:        a.clock,
		Validator:    a.validator,
	}); err != nil {
		slog.Error("failed to init module identity", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Mail:        a.mail,
		}); err != nil {
			slog.Error("failed to init module notification", "error", err)
			os.Exit(1)
		}
	}

	if err := diagnostic.New(diagnostic.Dependency{
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Clock:      a.clock,
		Validator:  a.validator,
		Storage:    a.storage,
	}); err != nil {
		slog.Error("failed to init module diagnostic", "error", err)
		os.Exit(1)
	}
}
