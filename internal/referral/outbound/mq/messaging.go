package mq

import (
	"context"
	"encoding/json"

	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/messaging"
	"github.com/patrulla-360/app-cce/internal/referral/usecase"
	"github.com/patrulla-360/app-cce/internal/shared/event"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Messaging
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Messaging, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

func (m *Messaging) PublishReferralRegistered(ctx context.Context, msg usecase.ReferralRegisteredEvent) error {
	ctx, span := m.ins.Tracer("referral.outbound.mq").Start(ctx, "PublishReferralRegistered")
	defer span.End()

	body, err := json.Marshal(event.ReferralRegisteredMessage{
		ReferralID:  msg.ReferralID,
		NationalID:  msg.NationalID,
		School:      msg.School,
		TableNumber: msg.TableNumber,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if _, err := m.client.Publish(ctx, event.ReferralRegisteredDestination, messaging.OutgoingMessage{
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
