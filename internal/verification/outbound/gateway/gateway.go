// Package gateway is the HTTP client for the externally-owned registration
// API that dispatches codes, checks them, and issues credentials.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/verification/usecase"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 15 * time.Second

// Registration calls the upstream registration API.
type Registration struct {
	client  *http.Client
	baseURL string
	ins     instrument.Instrumentation
}

// NewRegistration builds the gateway. A nil client falls back to a default
// with a bounded timeout; requests are never retried.
func NewRegistration(client *http.Client, baseURL string, ins instrument.Instrumentation) *Registration {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Registration{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		ins:     ins,
	}
}

func (g *Registration) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return g.ins.Tracer("verification.outbound.gateway").Start(ctx, name)
}

type sendCodeRequest struct {
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	DNI       string `json:"dni"`
	PhoneE164 string `json:"phone_e164"`
}

type confirmRequest struct {
	DNI       string `json:"dni"`
	PhoneE164 string `json:"phone_e164"`
	Code      string `json:"code"`
}

type issueRequest struct {
	DNI       string `json:"dni"`
	PhoneE164 string `json:"phone_e164"`
}

type okResponse struct {
	OK          bool   `json:"ok"`
	ReferenceID string `json:"reference_id"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// SendCode asks the upstream to dispatch a verification code to the
// messaging form of the phone.
func (g *Registration) SendCode(ctx context.Context, data usecase.SendCodeData) error {
	ctx, span := g.startSpan(ctx, "SendCode")
	defer span.End()

	_, err := g.post(ctx, "/api/registro/enviar-codigo", sendCodeRequest{
		Nombre:    data.Name,
		Apellido:  data.Surname,
		DNI:       data.NationalID,
		PhoneE164: data.MessagingPhone,
	})
	return err
}

// ConfirmCode checks the entered code against the upstream.
func (g *Registration) ConfirmCode(ctx context.Context, data usecase.ConfirmCodeData) error {
	ctx, span := g.startSpan(ctx, "ConfirmCode")
	defer span.End()

	_, err := g.post(ctx, "/api/registro/confirmar", confirmRequest{
		DNI:       data.NationalID,
		PhoneE164: data.DispatchPhone,
		Code:      data.Code,
	})
	return err
}

// IssueCredentials finalizes a verified registration and returns the upstream
// reference ID, when one is assigned.
func (g *Registration) IssueCredentials(ctx context.Context, data usecase.IssueCredentialsData) (string, error) {
	ctx, span := g.startSpan(ctx, "IssueCredentials")
	defer span.End()

	resp, err := g.post(ctx, "/api/registro/responsables/exitoso", issueRequest{
		DNI:       data.NationalID,
		PhoneE164: data.DispatchPhone,
	})
	if err != nil {
		return "", err
	}
	return resp.ReferenceID, nil
}

func (g *Registration) post(ctx context.Context, path string, payload any) (*okResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gateway: encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: call %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("gateway: read %s: %w", path, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		var rejection errorResponse
		if jerr := json.Unmarshal(raw, &rejection); jerr == nil && rejection.Detail != "" {
			return nil, fmt.Errorf("gateway: %s rejected (%d): %s", path, httpResp.StatusCode, rejection.Detail)
		}
		return nil, fmt.Errorf("gateway: %s rejected (%d)", path, httpResp.StatusCode)
	}

	var resp okResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("gateway: decode %s: %w", path, err)
	}
	if !resp.OK {
		return nil, fmt.Errorf("gateway: %s returned not ok", path)
	}

	return &resp, nil
}
