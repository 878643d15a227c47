package usecase

import (
	"context"
	"time"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/pkg/clock"
	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/jwt"
	"github.com/patrulla-360/app-cce/internal/pkg/uid"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const defaultSummaryTTL = 30 * time.Second

// Counter names tracked in the cache, fed by broker events.
const (
	CounterVerifiedParties = "verified_parties"
	CounterReferrals       = "referrals"
)

type repoDB interface {
	CreateCheckIn(ctx context.Context, in entity.CheckIn) error
	GetCheckInSummary(ctx context.Context) (int64, []entity.SchoolParticipation, error)
	GetSchoolList(ctx context.Context) ([]entity.School, error)
}

type repoCache interface {
	GetSummary(ctx context.Context) (*entity.Summary, error)
	SetSummary(ctx context.Context, sum entity.Summary, ttl time.Duration) error
	DeleteSummary(ctx context.Context) error
	IncrementCounter(ctx context.Context, name string) error
	GetCounter(ctx context.Context, name string) (int64, error)
}

// Usecase implements the dashboard operations.
type Usecase struct {
	repoDB    repoDB
	repoCache repoCache
	validator validator.Validator
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

// Dependency lists what the dashboard Usecase needs.
type Dependency struct {
	RepoDB     repoDB
	RepoCache  repoCache
	Validator  validator.Validator
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

// New builds the dashboard Usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoCache: dep.RepoCache,
		validator: dep.Validator,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("dashboard.usecase").Start(ctx, name)
}

func (s *Usecase) authenticated(ctx context.Context) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}
	return clm, nil
}

func (s *Usecase) summaryTTL() time.Duration {
	if secs := s.cfg.GetInt("modules.dashboard.summary_ttl_seconds"); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultSummaryTTL
}
