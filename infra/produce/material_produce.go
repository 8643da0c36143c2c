package produce

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	MaterialExchange = "material.events"

	MaterialCreatedQueue      = "material.created"
	MaterialCreatedRoutingKey = "material.created"

	CleanupObjectQueue      = "storage.cleanup"
	CleanupObjectRoutingKey = "storage.cleanup"
)

// MaterialCreatedMessage announces a finished upload to downstream
// consumers (search indexing, notifications).
type MaterialCreatedMessage struct {
	MaterialID      string `json:"material_id"`
	Title           string `json:"title"`
	CourseID        string `json:"course_id"`
	FileType        string `json:"file_type"`
	FileSize        int64  `json:"file_size"`
	StorageLocation string `json:"storage_location"`
	StoragePath     string `json:"storage_path"`
	UploaderID      string `json:"uploader_id,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// CleanupObjectMessage requests deletion of an object whose metadata row
// never landed. Compensating action, processed asynchronously.
type CleanupObjectMessage struct {
	StorageLocation string `json:"storage_location"`
	StoragePath     string `json:"storage_path"`
	Reason          string `json:"reason"`
	Timestamp       int64  `json:"timestamp"`
}

type MaterialProduceService struct {
	channel *amqp.Channel
}

func InitMaterialProduceService(channel *amqp.Channel) *MaterialProduceService {
	if err := channel.ExchangeDeclare(
		MaterialExchange,
		"direct",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		log.Fatalf("Failed to declare exchange %s: %v", MaterialExchange, err)
	}

	for queue, routingKey := range map[string]string{
		MaterialCreatedQueue: MaterialCreatedRoutingKey,
		CleanupObjectQueue:   CleanupObjectRoutingKey,
	} {
		if _, err := channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			log.Fatalf("Failed to declare queue %s: %v", queue, err)
		}
		if err := channel.QueueBind(queue, routingKey, MaterialExchange, false, nil); err != nil {
			log.Fatalf("Failed to bind queue %s: %v", queue, err)
		}
	}

	return &MaterialProduceService{channel: channel}
}

func (s *MaterialProduceService) PublishMaterialCreated(ctx context.Context, msg MaterialCreatedMessage) error {
	return s.publish(ctx, MaterialCreatedRoutingKey, msg)
}

func (s *MaterialProduceService) PublishCleanupObject(ctx context.Context, msg CleanupObjectMessage) error {
	return s.publish(ctx, CleanupObjectRoutingKey, msg)
}

func (s *MaterialProduceService) publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.channel.PublishWithContext(ctx,
		MaterialExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
