package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
)

// CheckInInput marks one voter as voted.
type CheckInInput struct {
	NationalID  string `validate:"required,nationalid"`
	SchoolID    int64  `validate:"required,gt=0"`
	TableNumber int32  `validate:"required,gt=0"`
}

// CheckInOutput reports the stored check-in.
type CheckInOutput struct {
	ID        int64
	CheckedAt time.Time
}

// CheckIn records that a voter has voted at a table. One check-in per
// national ID; a second attempt is a conflict.
func (s *Usecase) CheckIn(ctx context.Context, in CheckInInput) (*CheckInOutput, error) {
	ctx, span := s.startSpan(ctx, "CheckIn")
	defer span.End()

	clm, err := s.authenticated(ctx)
	if err != nil {
		return nil, err
	}

	in.NationalID = strings.TrimSpace(in.NationalID)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ci := entity.CheckIn{
		ID:          s.uid.Generate(),
		NationalID:  in.NationalID,
		SchoolID:    in.SchoolID,
		TableNumber: in.TableNumber,
		CheckedBy:   clm.UserID,
		CheckedAt:   s.clock.Now(),
	}

	if err := s.repoDB.CreateCheckIn(ctx, ci); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("This voter has already been checked in", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to create check-in", "national_id", in.NationalID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// The cached summary is stale the moment a check-in lands.
	if err := s.repoCache.DeleteSummary(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate summary cache", "error", err)
	}

	slog.InfoContext(ctx, "voter checked in",
		"check_in_id", ci.ID, "national_id", ci.NationalID, "school_id", ci.SchoolID, "table", ci.TableNumber)

	return &CheckInOutput{ID: ci.ID, CheckedAt: ci.CheckedAt}, nil
}
