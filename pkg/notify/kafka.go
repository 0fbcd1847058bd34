package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sguter90/anomalymaestro/pkg/commands"
	"go.uber.org/zap"
)

// CommandEvent is the JSON payload published for each executed command
type CommandEvent struct {
	ID         uuid.UUID `json:"id"`
	Command    string    `json:"command"`
	Outcome    string    `json:"outcome"`
	ExecutedAt time.Time `json:"executed_at"`
}

// MessageWriter is the subset of *kafka.Writer the notifier uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes command executions to a Kafka topic
type KafkaNotifier struct {
	writer  MessageWriter
	timeout time.Duration
	logger  *zap.Logger
}

// NewKafkaWriter creates a synchronous writer for topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

// NewKafkaNotifier wraps writer
func NewKafkaNotifier(writer MessageWriter, logger *zap.Logger) *KafkaNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaNotifier{
		writer:  writer,
		timeout: 5 * time.Second,
		logger:  logger.Named("notify"),
	}
}

// Notify publishes exec keyed by command name
func (n *KafkaNotifier) Notify(ctx context.Context, exec commands.Execution) error {
	event := CommandEvent{
		ID:         uuid.New(),
		Command:    exec.Command.String(),
		Outcome:    exec.Outcome,
		ExecutedAt: exec.ExecutedAt,
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal command event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	msg := kafka.Message{Key: []byte(event.Command), Value: b, Time: event.ExecutedAt}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write failed: %w", err)
	}

	n.logger.Debug("published command event", zap.String("command", event.Command), zap.String("id", event.ID.String()))
	return nil
}

// Close closes the underlying writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
