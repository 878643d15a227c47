package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/patrulla-360/app-cce/internal/dashboard/usecase"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/messaging"
	"github.com/patrulla-360/app-cce/internal/pkg/uid"
	"github.com/patrulla-360/app-cce/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   ucConsumer
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) PartyVerified(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("dashboard.inbound.mq").Start(ctx, "PartyVerified")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: party verified", "msg_body", string(body))

	var payload event.PartyVerifiedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of party verified", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumePartyVerified(ctx, usecase.ConsumePartyVerifiedInput{
		NationalID:  payload.NationalID,
		ReferenceID: payload.ReferenceID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume party verified", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) ReferralRegistered(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("dashboard.inbound.mq").Start(ctx, "ReferralRegistered")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: referral registered", "msg_body", string(body))

	var payload event.ReferralRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of referral registered", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeReferralRegistered(ctx, usecase.ConsumeReferralRegisteredInput{
		ReferralID: payload.ReferralID,
		NationalID: payload.NationalID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume referral registered", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
