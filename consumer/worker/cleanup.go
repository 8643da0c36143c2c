package worker

import (
	"context"
	"encoding/json"
	"log"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
	"github.com/Jason-Gitau/jkuat-course-hub/infra"
	"github.com/Jason-Gitau/jkuat-course-hub/infra/produce"
)

// CleanupConsumer deletes objects whose metadata row never landed. Each
// message is a compensating action for a failed upload finalization.
type CleanupConsumer struct {
	infra *infra.Infra
}

func NewCleanupConsumer(infraInstance *infra.Infra) *CleanupConsumer {
	return &CleanupConsumer{infra: infraInstance}
}

func (w *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := w.infra.RabbitMQ.Channel.Consume(
		produce.CleanupObjectQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	log.Printf("Cleanup consumer listening on %s", produce.CleanupObjectQueue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return nil
			}

			var msg produce.CleanupObjectMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				w.infra.Logger.ErrorWithContextf(ctx, err, "malformed cleanup message, dropping")
				_ = delivery.Nack(false, false)
				continue
			}

			if err := w.deleteObject(ctx, msg); err != nil {
				w.infra.Logger.ErrorWithContextf(ctx, err, "cleanup of %s on %s store failed, requeueing",
					msg.StoragePath, msg.StorageLocation)
				_ = delivery.Nack(false, true)
				continue
			}

			w.infra.Logger.InfoWithContextf(ctx, "cleaned up orphaned object %s on %s store (%s)",
				msg.StoragePath, msg.StorageLocation, msg.Reason)
			_ = delivery.Ack(false)
		}
	}
}

func (w *CleanupConsumer) deleteObject(ctx context.Context, msg produce.CleanupObjectMessage) error {
	switch entity.StorageLocation(msg.StorageLocation) {
	case entity.StorageLocationOverflow:
		if w.infra.Overflow == nil {
			// Nothing we can delete without credentials; drop after logging.
			w.infra.Logger.WarningWithContextf(ctx, "overflow store not configured, cannot clean %s", msg.StoragePath)
			return nil
		}
		return w.infra.Overflow.DeleteObject(ctx, msg.StoragePath)
	default:
		return w.infra.Primary.DeleteObject(ctx, msg.StoragePath)
	}
}
