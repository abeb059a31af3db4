package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// KafkaAuditPublisher decorates another Publisher, mirroring every
// dispatched event to a Kafka topic as an audit trail. Kafka write
// failures are logged and swallowed: the mutation has already committed
// and live delivery has already been attempted, so the audit mirror must
// never fail the request.
type KafkaAuditPublisher struct {
	next   Publisher
	writer *kafka.Writer
	logger *slog.Logger
}

// auditRecord is the shape written to the audit topic.
type auditRecord struct {
	EventID    uuid.UUID        `json:"event_id"`
	EventType  events.EventType `json:"event_type"`
	TargetUser uuid.UUID        `json:"target_user"`
	TaskID     uuid.UUID        `json:"task_id"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewKafkaAuditPublisher wraps next with an audit mirror producing to the
// given broker and topic.
func NewKafkaAuditPublisher(next Publisher, broker, topic string, log *slog.Logger) *KafkaAuditPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &KafkaAuditPublisher{
		next: next,
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: log.With(slog.String("component", "kafka_audit")),
	}
}

// Ensure KafkaAuditPublisher implements Publisher
var _ Publisher = (*KafkaAuditPublisher)(nil)

// Publish implements Publisher. Live delivery happens first; the audit
// write follows and its outcome never propagates.
func (p *KafkaAuditPublisher) Publish(
	ctx context.Context,
	userID uuid.UUID,
	event *events.TaskEvent,
) error {
	err := p.next.Publish(ctx, userID, event)

	record := auditRecord{
		EventID:    event.ID,
		EventType:  event.Type,
		TargetUser: userID,
		OccurredAt: event.OccurredAt,
	}
	if event.Task != nil {
		record.TaskID = event.Task.ID
	}

	payload, marshalErr := json.Marshal(record)
	if marshalErr != nil {
		p.logger.Warn("failed to marshal audit record",
			slog.String("error", marshalErr.Error()))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(userID.String()),
		Value: payload,
		Time:  time.Now(),
	}
	if writeErr := p.writer.WriteMessages(ctx, msg); writeErr != nil {
		p.logger.Warn("failed to write audit record to kafka",
			slog.String("error", writeErr.Error()),
			slog.String("event_id", event.ID.String()))
	}

	return err
}

// Close flushes and closes the underlying Kafka writer.
func (p *KafkaAuditPublisher) Close() error {
	return p.writer.Close()
}
