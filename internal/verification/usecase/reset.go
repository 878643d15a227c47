package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/phone"
	"github.com/patrulla-360/app-cce/internal/verification/entity"
)

// ResetInput identifies the session to discard.
type ResetInput struct {
	NationalID   string `validate:"required,nationalid"`
	PhoneCountry string `validate:"required"`
	PhoneArea    string `validate:"required"`
	PhoneNumber  string `validate:"required"`
}

// ResetOutput reports the session state after the reset.
type ResetOutput struct {
	State entity.SessionState
}

// Reset discards a session so the registrant can start over. Confirmed
// sessions are terminal and cannot be reset. In-flight collaborator
// responses for the discarded session are invalidated.
func (s *Usecase) Reset(ctx context.Context, in ResetInput) (*ResetOutput, error) {
	ctx, span := s.startSpan(ctx, "Reset")
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
		return &ResetOutput{State: entity.SessionStateIdle}, nil
	}

	sess.mu.Lock()
	if sess.data.State == entity.SessionStateConfirmed {
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("This phone is already verified", goerror.CodeConflict)
	}

	sess.stopCountdownLocked()
	// Invalidate any in-flight dispatch or confirmation for this session.
	sess.data.Attempt++
	sess.mu.Unlock()

	s.dropSession(in.NationalID, num)

	slog.InfoContext(ctx, "verification session discarded",
		"national_id", in.NationalID, "phone", num.Masked())

	return &ResetOutput{State: entity.SessionStateIdle}, nil
}
