package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/countdown"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/phone"
	"github.com/patrulla-360/app-cce/internal/verification/entity"
)

// RequestCodeInput carries the registrant identity and raw phone parts.
type RequestCodeInput struct {
	Name         string `validate:"required,min=2,max=100"`
	Surname      string `validate:"required,min=2,max=100"`
	NationalID   string `validate:"required,nationalid"`
	PhoneCountry string `validate:"required"`
	PhoneArea    string `validate:"required"`
	PhoneNumber  string `validate:"required"`
}

// RequestCodeOutput reports the opened (or still open) verification window.
type RequestCodeOutput struct {
	State            entity.SessionState
	MaskedPhone      string
	RemainingSeconds int64
}

// RequestCode validates the registrant, dispatches a verification code to the
// messaging form of the phone, and opens the countdown window.
//
// While a window is already open for the same registrant and phone, the call
// is an idempotent no-op that reports the current window. An expired window
// or an edited identity discards the previous session first.
func (s *Usecase) RequestCode(ctx context.Context, in RequestCodeInput) (*RequestCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "RequestCode")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.NationalID = strings.TrimSpace(in.NationalID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	num, err := phone.New(in.PhoneCountry, in.PhoneArea, in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	reg := entity.Registrant{
		Name:       in.Name,
		Surname:    in.Surname,
		NationalID: in.NationalID,
	}

	sess := s.sessionFor(in.NationalID, num)

	sess.mu.Lock()
	now := s.clock.Now()

	if sess.data.State == entity.SessionStateConfirmed {
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("This phone is already verified", goerror.CodeConflict)
	}

	if sess.data.State == entity.SessionStatePending && !sess.data.ExpiredAt(now) && reg.Equal(sess.data.Registrant) {
		out := &RequestCodeOutput{
			State:            entity.SessionStatePending,
			MaskedPhone:      num.Masked(),
			RemainingSeconds: countdown.Remaining(now, sess.data.ExpiresAt),
		}
		sess.mu.Unlock()
		return out, nil
	}

	if sess.busyRequest {
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("A code request is already in progress", goerror.CodeConflict)
	}

	// Expired window or edited identity: the previous session is discarded.
	sess.stopCountdownLocked()
	sess.data.Registrant = reg
	sess.data.State = entity.SessionStateIdle
	sess.busyRequest = true
	sess.data.Attempt++
	attempt := sess.data.Attempt
	sess.mu.Unlock()

	sendErr := s.gateway.SendCode(ctx, SendCodeData{
		Name:           reg.Name,
		Surname:        reg.Surname,
		NationalID:     reg.NationalID,
		MessagingPhone: num.Messaging(),
	})

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.busyRequest = false

	if sess.data.Attempt != attempt {
		slog.WarnContext(ctx, "discarding stale code dispatch response",
			"national_id", reg.NationalID, "phone", num.Masked())
		return nil, goerror.NewBusiness("The session was restarted, request a new code", goerror.CodeConflict)
	}

	if sendErr != nil {
		slog.ErrorContext(ctx, "failed to dispatch verification code",
			"national_id", reg.NationalID, "phone", num.Masked(), "error", sendErr)
		return nil, goerror.NewBusiness("Could not send the verification code, try again", goerror.CodeUpstream)
	}

	now = s.clock.Now()
	sess.data.MarkPending(now, s.codeTTL())
	s.armCountdown(sess, attempt)

	slog.InfoContext(ctx, "verification code dispatched",
		"national_id", reg.NationalID, "phone", num.Masked(),
		"expires_at", sess.data.ExpiresAt)

	return &RequestCodeOutput{
		State:            entity.SessionStatePending,
		MaskedPhone:      num.Masked(),
		RemainingSeconds: countdown.Remaining(now, sess.data.ExpiresAt),
	}, nil
}

// armCountdown starts the per-session expiry watcher. The caller must hold
// the session mutex.
func (s *Usecase) armCountdown(sess *session, attempt uint64) {
	ctx, cancel := context.WithCancel(context.Background())
	sess.cancelCountdown = cancel
	deadline := sess.data.ExpiresAt

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		err := s.ticker.Run(ctx, deadline, func() {
			sess.mu.Lock()
			defer sess.mu.Unlock()

			if sess.data.Attempt != attempt || sess.data.State != entity.SessionStatePending {
				return
			}
			sess.data.MarkExpired()
			slog.Info("verification window expired",
				"national_id", sess.data.Registrant.NationalID,
				"phone", sess.data.Phone.Masked())
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}
