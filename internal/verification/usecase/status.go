package usecase

import (
	"context"
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/countdown"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/phone"
	"github.com/patrulla-360/app-cce/internal/verification/entity"
)

// StatusInput identifies a session by registrant and phone.
type StatusInput struct {
	NationalID   string `validate:"required,nationalid"`
	PhoneCountry string `validate:"required"`
	PhoneArea    string `validate:"required"`
	PhoneNumber  string `validate:"required"`
}

// StatusOutput is the view-layer snapshot of a session.
type StatusOutput struct {
	State            entity.SessionState
	MaskedPhone      string
	RemainingSeconds int64
	ReferenceID      string
}

// Status reports the current state and remaining seconds of a session.
//
// The remaining time is re-derived from the wall clock on every call, so a
// session whose deadline passed reports Expired even before the countdown
// ticker observes it.
func (s *Usecase) Status(ctx context.Context, in StatusInput) (*StatusOutput, error) {
	_, span := s.startSpan(ctx, "Status")
	defer span.End()

	in.NationalID = strings.TrimSpace(in.NationalID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	num, err := phone.New(in.PhoneCountry, in.PhoneArea, in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	sess := s.lookup(in.NationalID, num)
	if sess == nil {
		return &StatusOutput{
			State:       entity.SessionStateIdle,
			MaskedPhone: num.Masked(),
		}, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.clock.Now()
	if sess.data.State == entity.SessionStatePending && sess.data.ExpiredAt(now) {
		sess.data.MarkExpired()
		sess.stopCountdownLocked()
	}

	var remaining int64
	if sess.data.State == entity.SessionStatePending {
		remaining = countdown.Remaining(now, sess.data.ExpiresAt)
	}

	return &StatusOutput{
		State:            sess.data.State,
		MaskedPhone:      num.Masked(),
		RemainingSeconds: remaining,
		ReferenceID:      sess.data.ReferenceID,
	}, nil
}
