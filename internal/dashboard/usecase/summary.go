package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/pkg/goerror"
)

// SummaryOutput is the dashboard headline block.
type SummaryOutput struct {
	Summary entity.Summary
	Cached  bool
}

// Summary returns the aggregate dashboard numbers. The composed result is
// cached on a short TTL; consoles poll this endpoint on fixed timers.
func (s *Usecase) Summary(ctx context.Context) (*SummaryOutput, error) {
	ctx, span := s.startSpan(ctx, "Summary")
	defer span.End()

	if _, err := s.authenticated(ctx); err != nil {
		return nil, err
	}

	cached, err := s.repoCache.GetSummary(ctx)
	if err == nil {
		return &SummaryOutput{Summary: *cached, Cached: true}, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "summary cache read failed, falling back to storage", "error", err)
	}

	total, bySchool, err := s.repoDB.GetCheckInSummary(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to aggregate check-ins", "error", err)
		return nil, goerror.NewServer(err)
	}

	verified, err := s.repoCache.GetCounter(ctx, CounterVerifiedParties)
	if err != nil {
		slog.WarnContext(ctx, "failed to read verified-parties counter", "error", err)
	}
	referrals, err := s.repoCache.GetCounter(ctx, CounterReferrals)
	if err != nil {
		slog.WarnContext(ctx, "failed to read referrals counter", "error", err)
	}

	sum := entity.Summary{
		TotalCheckIns:   total,
		VerifiedParties: verified,
		Referrals:       referrals,
		BySchool:        bySchool,
		GeneratedAt:     s.clock.Now(),
	}

	if err := s.repoCache.SetSummary(ctx, sum, s.summaryTTL()); err != nil {
		slog.WarnContext(ctx, "failed to cache summary", "error", err)
	}

	return &SummaryOutput{Summary: sum}, nil
}
