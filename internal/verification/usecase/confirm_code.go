package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/phone"
	"github.com/patrulla-360/app-cce/internal/verification/entity"
)

// ConfirmCodeInput carries the entered code for a pending session.
type ConfirmCodeInput struct {
	NationalID   string `validate:"required,nationalid"`
	PhoneCountry string `validate:"required"`
	PhoneArea    string `validate:"required"`
	PhoneNumber  string `validate:"required"`
	Code         string `validate:"required,shortcode"`
}

// ConfirmCodeOutput reports the confirmed session.
type ConfirmCodeOutput struct {
	State       entity.SessionState
	ReferenceID string
}

// ConfirmCode checks the entered code upstream and, on success, issues the
// registration credentials. The session becomes Confirmed only when both
// collaborator calls succeed.
//
// An expired window is rejected before any network call. A wrong code leaves
// the session Pending so the registrant can retype; an issuance failure also
// leaves it Pending so confirmation can be retried.
func (s *Usecase) ConfirmCode(ctx context.Context, in ConfirmCodeInput) (*ConfirmCodeOutput, error) {
	ctx, span := s.startSpan(ctx, "ConfirmCode")
	defer span.End()

	in.NationalID = strings.TrimSpace(in.NationalID)
	in.Code = strings.TrimSpace(in.Code)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	num, err := phone.New(in.PhoneCountry, in.PhoneArea, in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	sess := s.lookup(in.NationalID, num)
	if sess == nil {
		return nil, goerror.NewBusiness("No verification code was requested", goerror.CodeNotFound)
	}

	sess.mu.Lock()

	switch sess.data.State {
	case entity.SessionStateConfirmed:
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("This phone is already verified", goerror.CodeConflict)
	case entity.SessionStateIdle:
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("No verification code was requested", goerror.CodeNotFound)
	}

	// Expiry wins before any network call.
	if sess.data.ExpiredAt(s.clock.Now()) {
		sess.data.MarkExpired()
		sess.stopCountdownLocked()
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("The code has expired, request a new one", goerror.CodeExpired)
	}

	if sess.busyConfirm {
		sess.mu.Unlock()
		return nil, goerror.NewBusiness("A confirmation is already in progress", goerror.CodeConflict)
	}

	sess.busyConfirm = true
	attempt := sess.data.Attempt
	nationalID := sess.data.Registrant.NationalID
	dispatch := num.Dispatch()
	sess.mu.Unlock()

	confirmErr := s.gateway.ConfirmCode(ctx, ConfirmCodeData{
		NationalID:    nationalID,
		DispatchPhone: dispatch,
		Code:          in.Code,
	})

	var referenceID string
	var issueErr error
	if confirmErr == nil {
		referenceID, issueErr = s.gateway.IssueCredentials(ctx, IssueCredentialsData{
			NationalID:    nationalID,
			DispatchPhone: dispatch,
		})
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.busyConfirm = false

	if sess.data.Attempt != attempt {
		slog.WarnContext(ctx, "discarding stale confirmation response",
			"national_id", nationalID, "phone", num.Masked())
		return nil, goerror.NewBusiness("The session was restarted, request a new code", goerror.CodeConflict)
	}

	// The window may have closed while the calls were in flight.
	if sess.data.ExpiredAt(s.clock.Now()) {
		sess.data.MarkExpired()
		sess.stopCountdownLocked()
		return nil, goerror.NewBusiness("The code has expired, request a new one", goerror.CodeExpired)
	}

	if confirmErr != nil {
		slog.WarnContext(ctx, "verification code rejected",
			"national_id", nationalID, "phone", num.Masked(), "error", confirmErr)
		return nil, goerror.NewBusiness("The code is incorrect", goerror.CodeUnauthorized)
	}

	if issueErr != nil {
		slog.ErrorContext(ctx, "failed to issue registration credentials",
			"national_id", nationalID, "phone", num.Masked(), "error", issueErr)
		return nil, goerror.NewBusiness("Could not complete the registration, try again", goerror.CodeUpstream)
	}

	sess.data.MarkConfirmed(referenceID)
	sess.stopCountdownLocked()

	slog.InfoContext(ctx, "responsible party verified",
		"national_id", nationalID, "phone", num.Masked(), "reference_id", referenceID)

	s.publishPartyVerified(ctx, PartyVerifiedEvent{
		NationalID:    nationalID,
		DispatchPhone: dispatch,
		ReferenceID:   referenceID,
	})

	return &ConfirmCodeOutput{
		State:       entity.SessionStateConfirmed,
		ReferenceID: referenceID,
	}, nil
}

func (s *Usecase) publishPartyVerified(ctx context.Context, evt PartyVerifiedEvent) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		if err := s.repoMessaging.PublishPartyVerified(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "failed to publish party verified event",
				"national_id", evt.NationalID, "error", err)
			return err
		}
		return nil
	})
}
