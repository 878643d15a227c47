package usecase

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/pkg/clock"
	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/goroutine"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/jwt"
	"github.com/patrulla-360/app-cce/internal/pkg/uid"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"github.com/patrulla-360/app-cce/internal/referral/entity"
	"go.opentelemetry.io/otel/trace"
)

// ReferralRegisteredEvent is published when a referral is recorded.
type ReferralRegisteredEvent struct {
	ReferralID  int64
	NationalID  string
	School      string
	TableNumber int32
}

type repoDB interface {
	CreateReferral(ctx context.Context, in entity.Referral) error
	GetReferralByNationalID(ctx context.Context, nationalID string) (*entity.Referral, error)
	GetReferralList(ctx context.Context, filter entity.ListFilter) ([]entity.Referral, int64, error)
}

type repoMessaging interface {
	PublishReferralRegistered(ctx context.Context, msg ReferralRegisteredEvent) error
}

// Usecase implements the referral registry operations.
type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

// Dependency lists what the referral Usecase needs.
type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

// New builds the referral Usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("referral.usecase").Start(ctx, name)
}

// authenticated returns the operator claims or an error when missing.
func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}
