package inbound

import (
	"context"

	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/patrulla-360/app-cce/internal/verification/usecase"
)

type uc interface {
	RequestCode(ctx context.Context, in usecase.RequestCodeInput) (*usecase.RequestCodeOutput, error)
	ConfirmCode(ctx context.Context, in usecase.ConfirmCodeInput) (*usecase.ConfirmCodeOutput, error)
	Status(ctx context.Context, in usecase.StatusInput) (*usecase.StatusOutput, error)
	Reset(ctx context.Context, in usecase.ResetInput) (*usecase.ResetOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/verification/request", end.RequestCode)
	r.POST("/api/v1/verification/confirm", end.ConfirmCode)
	r.POST("/api/v1/verification/reset", end.Reset)
	r.GET("/api/v1/verification/status", end.Status)
}
