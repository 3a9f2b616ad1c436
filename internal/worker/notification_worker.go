package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staffing-board/internal/notify"
	"github.com/spec-kit/staffing-board/internal/observability"
	"github.com/spec-kit/staffing-board/internal/service"
)

const errorBackoff = time.Second

// NotificationWorker drains the outbox into a sender. A message that fails to
// send is logged and dropped.
type NotificationWorker struct {
	outbox  notify.Outbox
	sender  notify.Sender
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNotificationWorker builds a worker.
func NewNotificationWorker(outbox notify.Outbox, sender notify.Sender, metrics *observability.Metrics, logger *zap.Logger) *NotificationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{outbox: outbox, sender: sender, metrics: metrics, logger: logger}
}

// Run delivers messages until ctx is done or the outbox is closed and drained.
func (w *NotificationWorker) Run(ctx context.Context) error {
	for {
		msg, ok, err := w.outbox.Dequeue(ctx)
		switch {
		case errors.Is(err, notify.ErrOutboxClosed):
			return nil
		case ctx.Err() != nil:
			return nil
		case err != nil:
			w.logger.Warn("notification dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(errorBackoff):
			}
			continue
		case !ok:
			continue
		}
		w.deliver(ctx, msg)
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, msg notify.Message) {
	if err := w.sender.Send(ctx, msg); err != nil {
		w.metrics.RecordNotification("failed")
		w.logger.Warn("notification delivery failed",
			zap.String("id", msg.ID),
			zap.String("kind", msg.Kind),
			zap.Error(err))
		return
	}
	w.metrics.RecordNotification("sent")
}

// StartNotificationWorker registers notification handlers and runs the worker
// in the background. The returned channel closes when the worker exits.
func StartNotificationWorker(ctx context.Context, notifications *service.NotificationService, w *NotificationWorker) <-chan struct{} {
	done := make(chan struct{})
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if w == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			w.logger.Error("notification worker stopped", zap.Error(err))
		}
	}()
	return done
}
