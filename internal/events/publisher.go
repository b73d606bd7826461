package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/PROJEKT-DZIEKAN/support-chat-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// Publisher streams every persisted chat message to a Kafka topic so other
// backend services can consume the conversation feed. A nil Publisher is
// valid and drops everything, which keeps Kafka optional in deployments
// that do not run it.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			WriteTimeout: 5 * time.Second,
			RequiredAcks: kafka.RequireAll,
		},
	}
}

// PublishMessage writes the message keyed by room id so a room's feed stays
// ordered within its partition.
func (p *Publisher) PublishMessage(ctx context.Context, msg *models.Message) error {
	if p == nil || p.writer == nil {
		return nil
	}

	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(msg.RoomID), 10)),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("publish message event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
