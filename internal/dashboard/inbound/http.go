package inbound

import (
	"github.com/patrulla-360/app-cce/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/dashboard/check-ins", end.CheckIn)
	r.GET("/api/v1/dashboard/summary", end.Summary)
	r.GET("/api/v1/dashboard/schools", end.Schools)
}
