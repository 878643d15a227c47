package usecase

import (
	"context"
	"log/slog"
)

// ConsumePartyVerifiedInput carries a party verification event from the broker.
type ConsumePartyVerifiedInput struct {
	NationalID  string
	ReferenceID string
}

// ConsumePartyVerified bumps the verified-parties counter and drops the
// cached summary so the next read reflects it.
func (s *Usecase) ConsumePartyVerified(ctx context.Context, in ConsumePartyVerifiedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumePartyVerified")
	defer span.End()

	if err := s.repoCache.IncrementCounter(ctx, CounterVerifiedParties); err != nil {
		slog.ErrorContext(ctx, "failed to increment verified-parties counter",
			"national_id", in.NationalID, "error", err)
		return err
	}

	if err := s.repoCache.DeleteSummary(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate summary cache", "error", err)
	}

	return nil
}

// ConsumeReferralRegisteredInput carries a referral registration event.
type ConsumeReferralRegisteredInput struct {
	ReferralID int64
	NationalID string
}

// ConsumeReferralRegistered bumps the referrals counter.
func (s *Usecase) ConsumeReferralRegistered(ctx context.Context, in ConsumeReferralRegisteredInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeReferralRegistered")
	defer span.End()

	if err := s.repoCache.IncrementCounter(ctx, CounterReferrals); err != nil {
		slog.ErrorContext(ctx, "failed to increment referrals counter",
			"referral_id", in.ReferralID, "error", err)
		return err
	}

	if err := s.repoCache.DeleteSummary(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate summary cache", "error", err)
	}

	return nil
}
