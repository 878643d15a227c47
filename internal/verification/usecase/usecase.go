package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/patrulla-360/app-cce/internal/pkg/clock"
	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/countdown"
	"github.com/patrulla-360/app-cce/internal/pkg/goroutine"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/phone"
	"github.com/patrulla-360/app-cce/internal/pkg/validator"
	"github.com/patrulla-360/app-cce/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

// defaultCodeTTL is the verification window when no override is configured.
const defaultCodeTTL = 120 * time.Second

// SendCodeData is the payload for dispatching a verification code.
type SendCodeData struct {
	Name           string
	Surname        string
	NationalID     string
	MessagingPhone string
}

// ConfirmCodeData is the payload for checking an entered code upstream.
type ConfirmCodeData struct {
	NationalID    string
	DispatchPhone string
	Code          string
}

// IssueCredentialsData is the payload for finalizing a verified registration.
type IssueCredentialsData struct {
	NationalID    string
	DispatchPhone string
}

// PartyVerifiedEvent is published when a responsible party completes
// verification and credentials are issued.
type PartyVerifiedEvent struct {
	NationalID    string
	DispatchPhone string
	ReferenceID   string
}

type registrationGateway interface {
	SendCode(ctx context.Context, data SendCodeData) error
	ConfirmCode(ctx context.Context, data ConfirmCodeData) error
	IssueCredentials(ctx context.Context, data IssueCredentialsData) (string, error)
}

type repoMessaging interface {
	PublishPartyVerified(ctx context.Context, msg PartyVerifiedEvent) error
}

// session is the in-memory runtime wrapper around one entity.Session.
//
// Lock order: the store mutex on Usecase is never held while a session
// mutex is taken by collaborator calls; countdown callbacks take only the
// session mutex.
type session struct {
	mu   sync.Mutex
	data entity.Session

	// At-most-one in-flight collaborator call per operation kind.
	busyRequest bool
	busyConfirm bool

	cancelCountdown context.CancelFunc
}

func (se *session) stopCountdownLocked() {
	if se.cancelCountdown != nil {
		se.cancelCountdown()
		se.cancelCountdown = nil
	}
}

// Usecase orchestrates verification sessions keyed by national ID and
// dispatch phone. One live session per pair.
type Usecase struct {
	gateway       registrationGateway
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
	ticker        *countdown.Ticker

	mu       sync.Mutex
	sessions map[string]*session
}

// Dependency lists what the verification Usecase needs.
type Dependency struct {
	Gateway       registrationGateway
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

// New builds the verification Usecase.
func New(dep Dependency) *Usecase {
	return &Usecase{
		gateway:       dep.Gateway,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
		ticker:        countdown.NewTicker(dep.Clock, countdown.DefaultTick),
		sessions:      make(map[string]*session),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

func (s *Usecase) codeTTL() time.Duration {
	if ttl := s.cfg.GetSecond("modules.verification.code_ttl_seconds"); ttl > 0 {
		return ttl
	}
	return defaultCodeTTL
}

func sessionKey(nationalID string, num phone.Number) string {
	return nationalID + "|" + num.Dispatch()
}

// sessionFor returns the live session for the pair, creating it when absent.
func (s *Usecase) sessionFor(nationalID string, num phone.Number) *session {
	key := sessionKey(nationalID, num)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok {
		sess = &session{data: entity.Session{
			Phone: num,
			State: entity.SessionStateIdle,
		}}
		s.sessions[key] = sess
	}
	return sess
}

// lookup returns the live session for the pair, or nil.
func (s *Usecase) lookup(nationalID string, num phone.Number) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionKey(nationalID, num)]
}

func (s *Usecase) dropSession(nationalID string, num phone.Number) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(nationalID, num))
}
