// Package verification wires the responsible-party verification flow: the
// OTP-gated phone check that election-day console operators walk registrants
// through before credentials are issued.
package verification

import (
	"net/http"

	"github.com/patrulla-360/app-cce/internal/pkg/clock"
	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goroutine"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/messaging"
	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"github.com/patrulla-360/app-cce/internal/verification/inbound"
	"github.com/patrulla-360/app-cce/internal/verification/outbound/gateway"
	"github.com/patrulla-360/app-cce/internal/verification/outbound/mq"
	"github.com/patrulla-360/app-cce/internal/verification/usecase"
)

type Dependency struct {
	HTTPClient *http.Client
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	registration := gateway.NewRegistration(
		dep.HTTPClient,
		dep.Config.GetString("modules.verification.registration_base_url"),
		dep.Instrument,
	)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Gateway:       registration,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
