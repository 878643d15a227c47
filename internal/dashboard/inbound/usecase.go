package inbound

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/dashboard/usecase"
)

type ucConsumer interface {
	ConsumePartyVerified(ctx context.Context, in usecase.ConsumePartyVerifiedInput) error
	ConsumeReferralRegistered(ctx context.Context, in usecase.ConsumeReferralRegisteredInput) error
}

type uc interface {
	ucConsumer

	CheckIn(ctx context.Context, in usecase.CheckInInput) (*usecase.CheckInOutput, error)
	Summary(ctx context.Context) (*usecase.SummaryOutput, error)
	Schools(ctx context.Context) ([]entity.School, error)
}
