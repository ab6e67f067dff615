package producer

import (
	"context"
	"time"

	"github.com/Arce-y-Vargas/arceyvargas-system/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultBatchSize = 50

// Worker drains outbox_events to the broker on a fixed poll interval.
type Worker struct {
	repo         kafka.OutboxRepository
	writer       *kafkago.Writer
	logger       *zap.Logger
	pollInterval time.Duration
}

func NewWorker(repo kafka.OutboxRepository, writer *kafkago.Writer, pollInterval time.Duration, logger ...*zap.Logger) *Worker {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Worker{
		repo:         repo,
		writer:       writer,
		logger:       l.Named("kafka.producer.worker"),
		pollInterval: pollInterval,
	}
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("outbox worker started", zap.Duration("poll_interval", w.pollInterval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if err := w.drainOnce(ctx); err != nil {
				w.logger.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

func (w *Worker) drainOnce(ctx context.Context) error {
	events, err := w.repo.ListPending(ctx, defaultBatchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	w.logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		if err := publishEvent(ctx, w.writer, event); err != nil {
			w.logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Error(err),
			)
			_ = w.repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := w.repo.MarkSent(ctx, event.ID); err != nil {
			w.logger.Error("mark outbox sent failed",
				zap.String("outbox_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		w.logger.Info("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	return nil
}
