package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/pkg/phone"
	"github.com/patrulla-360/app-cce/internal/referral/entity"
)

// CreateInput carries a new referral record.
type CreateInput struct {
	Name         string `validate:"required,min=2,max=100"`
	Surname      string `validate:"required,min=2,max=100"`
	NationalID   string `validate:"required,nationalid"`
	PhoneCountry string `validate:"required"`
	PhoneArea    string `validate:"required"`
	PhoneNumber  string `validate:"required"`
	School       string `validate:"required,min=2,max=150"`
	TableNumber  int32  `validate:"required,gt=0"`
}

// CreateOutput reports the stored referral.
type CreateOutput struct {
	ID int64
}

// Create records a referral for the authenticated operator and publishes a
// registration event. One referral per national ID.
func (s *Usecase) Create(ctx context.Context, in CreateInput) (*CreateOutput, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.NationalID = strings.TrimSpace(in.NationalID)
	in.School = strings.TrimSpace(in.School)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	num, err := phone.New(in.PhoneCountry, in.PhoneArea, in.PhoneNumber)
	if err != nil {
		return nil, err
	}

	if _, err := s.repoDB.GetReferralByNationalID(ctx, in.NationalID); err == nil {
		return nil, goerror.NewBusiness("This person is already registered as a referral", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to check existing referral", "national_id", in.NationalID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ref := entity.Referral{
		ID:          s.uid.Generate(),
		Name:        in.Name,
		Surname:     in.Surname,
		NationalID:  in.NationalID,
		Phone:       num.Dispatch(),
		School:      in.School,
		TableNumber: in.TableNumber,
		CreatedBy:   clm.UserID,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repoDB.CreateReferral(ctx, ref); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("This person is already registered as a referral", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to create referral", "national_id", in.NationalID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		evt := ReferralRegisteredEvent{
			ReferralID:  ref.ID,
			NationalID:  ref.NationalID,
			School:      ref.School,
			TableNumber: ref.TableNumber,
		}
		if err := s.repoMessaging.PublishReferralRegistered(ctx, evt); err != nil {
			slog.ErrorContext(ctx, "failed to publish referral registered event",
				"referral_id", ref.ID, "error", err)
			return err
		}
		return nil
	})

	slog.InfoContext(ctx, "referral registered",
		"referral_id", ref.ID, "national_id", ref.NationalID, "operator_id", clm.UserID)

	return &CreateOutput{ID: ref.ID}, nil
}
