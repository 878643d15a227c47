package inbound

import (
	"github.com/patrulla-360/app-cce/internal/pkg/router"
	"github.com/patrulla-360/app-cce/internal/verification/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the responsible-party verification flow.
type HTTPEndpoint struct {
	uc uc
}

// RequestCode dispatches a verification code and opens the countdown window.
func (h *HTTPEndpoint) RequestCode(r *router.Request) (any, error) {
	var req RequestCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.RequestCode(r.Context(), usecase.RequestCodeInput{
		Name:         req.Name,
		Surname:      req.Surname,
		NationalID:   req.NationalID,
		PhoneCountry: req.Country,
		PhoneArea:    req.Area,
		PhoneNumber:  req.Number,
	})
	if err != nil {
		return nil, err
	}

	return RequestCodeResponse{
		State:            resp.State.String(),
		MaskedPhone:      resp.MaskedPhone,
		RemainingSeconds: resp.RemainingSeconds,
	}, nil
}

// ConfirmCode checks the entered code and completes the registration.
func (h *HTTPEndpoint) ConfirmCode(r *router.Request) (any, error) {
	var req ConfirmCodeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.ConfirmCode(r.Context(), usecase.ConfirmCodeInput{
		NationalID:   req.NationalID,
		PhoneCountry: req.Country,
		PhoneArea:    req.Area,
		PhoneNumber:  req.Number,
		Code:         req.Code,
	})
	if err != nil {
		return nil, err
	}

	return ConfirmCodeResponse{
		State:       resp.State.String(),
		ReferenceID: resp.ReferenceID,
	}, nil
}

// Status reports the session state and the wall-clock remaining seconds.
func (h *HTTPEndpoint) Status(r *router.Request) (any, error) {
	resp, err := h.uc.Status(r.Context(), usecase.StatusInput{
		NationalID:   r.GetQuery("national_id"),
		PhoneCountry: r.GetQuery("phone_country"),
		PhoneArea:    r.GetQuery("phone_area"),
		PhoneNumber:  r.GetQuery("phone_number"),
	})
	if err != nil {
		return nil, err
	}

	return StatusResponse{
		State:            resp.State.String(),
		MaskedPhone:      resp.MaskedPhone,
		RemainingSeconds: resp.RemainingSeconds,
		ReferenceID:      resp.ReferenceID,
	}, nil
}

// Reset discards the session so the registrant can start over.
func (h *HTTPEndpoint) Reset(r *router.Request) (any, error) {
	var req ResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Reset(r.Context(), usecase.ResetInput{
		NationalID:   req.NationalID,
		PhoneCountry: req.Country,
		PhoneArea:    req.Area,
		PhoneNumber:  req.Number,
	})
	if err != nil {
		return nil, err
	}

	return ResetResponse{State: resp.State.String()}, nil
}
