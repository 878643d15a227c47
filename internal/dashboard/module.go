// Package dashboard wires the election-day dashboard: voter check-in,
// participation aggregates, and the school map behind the console.
package dashboard

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/patrulla-360/app-cce/internal/dashboard/inbound"
	"github.com/patrulla-360/app-cce/internal/dashboard/outbound/cache"
	"github.com/patrulla-360/app-cce/internal/dashboard/outbound/db"
	"github.com/patrulla-360/app-cce/internal/dashboard/usecase"
	"github.com/patrulla-360/app-cce/internal/pkg/clock"
	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goroutine"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/messaging"
	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/patrulla-360/app-cce/internal/pkg/uid"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoDB := db.NewDB(dep.DBConn, dep.Instrument)
	repoCache := cache.NewCache(dep.CacheConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     repoDB,
		RepoCache:  repoCache,
		Validator:  dep.Validator,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
