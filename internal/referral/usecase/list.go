package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
	"github.com/patrulla-360/app-cce/internal/referral/entity"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListInput pages and filters the referral listing.
type ListInput struct {
	Search string `validate:"omitempty,max=100"`
	Page   int32  `validate:"omitempty,gte=1"`
	Size   int32  `validate:"omitempty,gte=1,lte=100"`
}

// ListOutput carries one page of referrals.
type ListOutput struct {
	Referrals []entity.Referral
	Total     int64
	Page      int32
	Size      int32
}

// List returns a page of referrals, newest first, optionally filtered by a
// search over name, surname, and national ID.
func (s *Usecase) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	in.Search = strings.TrimSpace(in.Search)

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	if in.Page < 1 {
		in.Page = 1
	}
	if in.Size < 1 {
		in.Size = defaultPageSize
	}
	if in.Size > maxPageSize {
		in.Size = maxPageSize
	}

	filter := entity.ListFilter{
		Search: in.Search,
		Page:   in.Page,
		Size:   in.Size,
	}

	refs, total, err := s.repoDB.GetReferralList(ctx, filter)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list referrals", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ListOutput{
		Referrals: refs,
		Total:     total,
		Page:      in.Page,
		Size:      in.Size,
	}, nil
}
