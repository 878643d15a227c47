package inbound

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/patrulla-360/app-cce/internal/referral/usecase"
)

type uc interface {
	Create(ctx context.Context, in usecase.CreateInput) (*usecase.CreateOutput, error)
	List(ctx context.Context, in usecase.ListInput) (*usecase.ListOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/referrals", end.Create)
	r.GET("/api/v1/referrals", end.List)
}
