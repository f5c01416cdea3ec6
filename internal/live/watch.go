package live

import (
	"context"

	"github.com/BloggingApp/social-service/internal/metrics"
	"go.uber.org/zap"
)

// Watch streams snapshots of a topic's state until it is closed or its
// context is cancelled. Only the latest snapshot is kept for a slow reader.
type Watch[T any] struct {
	snapshots chan T
	cancel    context.CancelFunc
	done      chan struct{}
}

// Snapshots returns the channel snapshots are delivered on. The first value
// is the state at the time the watch was opened. The channel is closed once
// the watch stops.
func (w *Watch[T]) Snapshots() <-chan T {
	return w.snapshots
}

// Done is closed after the watch has released its subscription.
func (w *Watch[T]) Done() <-chan struct{} {
	return w.done
}

func (w *Watch[T]) Close() {
	w.cancel()
	<-w.done
}

// Open subscribes to topic and delivers load's result now and after every
// notification. kind labels the subscription gauge.
func Open[T any](ctx context.Context, logger *zap.Logger, broker Broker, kind string, topic string, load func(ctx context.Context) (T, error)) (*Watch[T], error) {
	// Subscribe first so a change between the initial load and the
	// subscription is not missed.
	sub, err := broker.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}

	initial, err := load(ctx)
	if err != nil {
		sub.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watch[T]{
		snapshots: make(chan T, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	w.snapshots <- initial

	gauge := metrics.LiveSubscriptions.WithLabelValues(kind)
	gauge.Inc()

	go func() {
		defer close(w.done)
		defer gauge.Dec()
		defer close(w.snapshots)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.C():
				if !ok {
					return
				}

				snapshot, err := load(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					logger.Sugar().Errorf("failed to load snapshot for topic(%s): %s", topic, err.Error())
					continue
				}
				w.deliver(snapshot)
			}
		}
	}()

	return w, nil
}

func (w *Watch[T]) deliver(snapshot T) {
	select {
	case w.snapshots <- snapshot:
		return
	default:
	}

	// Replace the undelivered snapshot with the newer one.
	select {
	case <-w.snapshots:
	default:
	}
	w.snapshots <- snapshot
}
