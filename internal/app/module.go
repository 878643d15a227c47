package app

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/patrulla-360/app-cce/internal/dashboard"
	"github.com/patrulla-360/app-cce/internal/referral"
	"github.com/patrulla-360/app-cce/internal/verification"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.verification.enabled") {
		if err := verification.New(verification.Dependency{
			HTTPClient: &http.Client{Timeout: a.config.GetSecond("modules.verification.gateway_timeout_seconds")},
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module verification", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.referral.enabled") {
		if err := referral.New(referral.Dependency{
			DBConn:     a.dbConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			UID:        a.uid,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module referral", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.dashboard.enabled") {
		if err := dashboard.New(dashboard.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			CacheConn:  a.cacheConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			UID:        a.uid,
			UUID:       a.uuid,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module dashboard", "error", err)
			os.Exit(1)
		}
	}
}
