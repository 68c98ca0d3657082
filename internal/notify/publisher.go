package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shaiso/Sequentia/internal/domain"
	"github.com/shaiso/Sequentia/internal/history"
)

// MessageType — тип события.
type MessageType string

// Типы событий.
const (
	MessageTypeRunFinished   MessageType = "run.finished"
	MessageTypeStepCompleted MessageType = "step.completed"
)

// Publisher публикует события о прогонах в RabbitMQ.
//
// Публикация инициируется вызывающей стороной ПОСЛЕ получения
// результата прогона: ядро выполнения само событий не порождает.
// Доставка at-least-once; exactly-once сознательно не гарантируется.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип события.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// RunFinishedPayload — payload события о завершённом прогоне.
type RunFinishedPayload struct {
	RunID    uuid.UUID        `json:"run_id"`
	Status   domain.RunStatus `json:"status"`
	StepsRun int              `json:"steps_run"`
	Error    string           `json:"error,omitempty"`
}

// StepCompletedPayload — payload события о выполненном шаге.
type StepCompletedPayload struct {
	RunID    uuid.UUID `json:"run_id"`
	RecordID uuid.UUID `json:"record_id"`
	StepID   string    `json:"step_id"`
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	Duration int64     `json:"duration_ms"`
}

// Publish публикует сообщение в обменник событий.
func (p *Publisher) Publish(ctx context.Context, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(ExchangeEvents), // exchange
			string(routingKey),     // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeEvents, routingKey, err)
		}

		p.logger.Debug("published message",
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishRunFinished публикует событие о завершённом прогоне.
func (p *Publisher) PublishRunFinished(ctx context.Context, run *domain.SequenceRun) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeRunFinished,
		Payload: RunFinishedPayload{
			RunID:    run.ID,
			Status:   run.Status,
			StepsRun: run.StepsRun,
			Error:    run.Error,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, RoutingKeyRunFinished, msg)
}

// PublishStepCompleted публикует событие о выполненном шаге.
func (p *Publisher) PublishStepCompleted(ctx context.Context, runID uuid.UUID, rec *history.Record) error {
	message := ""
	if rec.Outcome != nil {
		message = rec.Outcome.Message
	}

	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeStepCompleted,
		Payload: StepCompletedPayload{
			RunID:    runID,
			RecordID: rec.ID,
			StepID:   rec.StepID,
			Success:  rec.Success,
			Message:  message,
			Duration: rec.Duration.Milliseconds(),
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, RoutingKeyStepCompleted, msg)
}
