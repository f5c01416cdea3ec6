package service

import (
	"context"

	"github.com/BloggingApp/social-service/internal/live"
	"github.com/BloggingApp/social-service/internal/metrics"
	"go.uber.org/zap"
)

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, queue string, v interface{}) error {
	return nil
}

// notifier reports completed writes. Failures are logged and never undo the write.
type notifier struct {
	logger    *zap.Logger
	broker    live.Broker
	publisher EventPublisher
}

func (n *notifier) changed(ctx context.Context, topic string) {
	if err := n.broker.Publish(ctx, topic); err != nil {
		n.logger.Sugar().Errorf("failed to publish change on topic(%s): %s", topic, err.Error())
	}
}

func (n *notifier) event(ctx context.Context, queue string, v interface{}) {
	if err := n.publisher.Publish(ctx, queue, v); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(queue, "error").Inc()
		n.logger.Sugar().Errorf("failed to publish event to queue(%s): %s", queue, err.Error())
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(queue, "ok").Inc()
}
