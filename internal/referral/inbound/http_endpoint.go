package inbound

import (
	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/patrulla-360/app-cce/internal/referral/entity"
	"github.com/patrulla-360/app-cce/internal/referral/usecase"
	"github.com/samber/lo"
)

// HTTPEndpoint exposes HTTP handlers for the referral registry.
type HTTPEndpoint struct {
	uc uc
}

// Create registers a new referral brought in by a responsible party.
func (h *HTTPEndpoint) Create(r *router.Request) (any, error) {
	var req CreateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Create(r.Context(), usecase.CreateInput{
		Name:         req.Name,
		Surname:      req.Surname,
		NationalID:   req.NationalID,
		PhoneCountry: req.Country,
		PhoneArea:    req.Area,
		PhoneNumber:  req.Number,
		School:       req.School,
		TableNumber:  req.TableNumber,
	})
	if err != nil {
		return nil, err
	}

	return CreateResponse{ID: resp.ID}, nil
}

// List returns a page of referrals with an optional search filter.
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	size, err := r.GetQueryInt32("size")
	if err != nil {
		return nil, err
	}

	page, err := r.GetQueryInt32("page")
	if err != nil {
		return nil, err
	}

	resp, err := h.uc.List(r.Context(), usecase.ListInput{
		Search: r.GetQuery("search"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return nil, err
	}

	refs := lo.Map(resp.Referrals, func(item entity.Referral, _ int) ReferralResponse {
		return ReferralResponse{
			ID:          item.ID,
			Name:        item.Name,
			Surname:     item.Surname,
			NationalID:  item.NationalID,
			Phone:       item.Phone,
			School:      item.School,
			TableNumber: item.TableNumber,
			CreatedAt:   item.CreatedAt,
		}
	})

	return ReferralsResponse{
		Referrals: refs,
		total:     resp.Total,
		size:      resp.Size,
		page:      resp.Page,
	}, nil
}
