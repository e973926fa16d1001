package notify

import (
	"context"

	"github.com/shortenv/shortenv/internal/clicks"
	"github.com/shortenv/shortenv/internal/messaging"
	"github.com/shortenv/shortenv/internal/metrics"
	"go.uber.org/zap"
)

// NewClickHandler returns the consumer handler that turns attributed click
// events into sink notifications. Delivery failures are absorbed here: the
// handler always reports success so notification traffic is never redelivered
// in a retry loop.
func NewClickHandler(sink Sink, logger *zap.Logger) messaging.Handler[clicks.AttributedEvent] {
	return func(ctx context.Context, event *clicks.AttributedEvent) error {
		if err := sink.Send(ctx, FormatClickMessage(event)); err != nil {
			metrics.NotifyFailures.Inc()
			logger.Warn("click notification failed",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}

		return nil
	}
}
