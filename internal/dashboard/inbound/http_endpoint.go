package inbound

import (
	"github.com/patrulla-360/app-cce/internal/dashboard/entity"
	"github.com/patrulla-360/app-cce/internal/dashboard/usecase"
	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/samber/lo"
)

// HTTPEndpoint exposes HTTP handlers for the election-day dashboard.
type HTTPEndpoint struct {
	uc uc
}

// CheckIn marks one voter as voted at a table.
func (h *HTTPEndpoint) CheckIn(r *router.Request) (any, error) {
	var req CheckInRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.CheckIn(r.Context(), usecase.CheckInInput{
		NationalID:  req.NationalID,
		SchoolID:    req.SchoolID,
		TableNumber: req.TableNumber,
	})
	if err != nil {
		return nil, err
	}

	return CheckInResponse{ID: resp.ID, CheckedAt: resp.CheckedAt}, nil
}

// Summary returns the aggregate dashboard numbers.
func (h *HTTPEndpoint) Summary(r *router.Request) (any, error) {
	resp, err := h.uc.Summary(r.Context())
	if err != nil {
		return nil, err
	}

	bySchool := lo.Map(resp.Summary.BySchool, func(item entity.SchoolParticipation, _ int) SchoolParticipationResponse {
		return SchoolParticipationResponse{
			SchoolID:   item.SchoolID,
			SchoolName: item.SchoolName,
			CheckedIn:  item.CheckedIn,
		}
	})

	return SummaryResponse{
		TotalCheckIns:   resp.Summary.TotalCheckIns,
		VerifiedParties: resp.Summary.VerifiedParties,
		Referrals:       resp.Summary.Referrals,
		BySchool:        bySchool,
		GeneratedAt:     resp.Summary.GeneratedAt,
	}, nil
}

// Schools returns the polling places for the console map.
func (h *HTTPEndpoint) Schools(r *router.Request) (any, error) {
	schools, err := h.uc.Schools(r.Context())
	if err != nil {
		return nil, err
	}

	return SchoolsResponse{
		Schools: lo.Map(schools, func(item entity.School, _ int) SchoolResponse {
			return SchoolResponse{
				ID:        item.ID,
				Name:      item.Name,
				Address:   item.Address,
				Latitude:  item.Latitude,
				Longitude: item.Longitude,
				Tables:    item.Tables,
			}
		}),
	}, nil
}
