package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/patrulla-360/app-cce/internal/pkg/config"
	"github.com/patrulla-360/app-cce/internal/pkg/goroutine"
	"github.com/patrulla-360/app-cce/internal/pkg/instrument"
	"github.com/patrulla-360/app-cce/internal/pkg/messaging"
	"github.com/patrulla-360/app-cce/internal/pkg/uid"
	"github.com/patrulla-360/app-cce/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc ucConsumer,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.dashboard.consumer_names")

	var consumers = []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.PartyVerifiedConsumerDashboard,
			topic:   event.PartyVerifiedDestination,
			handler: mqHandler.PartyVerified,
		},
		{
			name:    event.ReferralRegisteredConsumerDashboard,
			topic:   event.ReferralRegisteredDestination,
			handler: mqHandler.ReferralRegistered,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithQueueGroup(consumer.name),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
				)
			})
		}
	}
}
