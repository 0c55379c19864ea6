package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"skill-assess/internal/config"
)

const (
	RoutingProfileSkillsUpdated = "profile.skills_updated"
	RoutingAssessmentCompleted  = "assessment.completed"

	publishTimeout = 5 * time.Second
)

var ErrClosed = errors.New("broker closed")

// Event is the message body published for downstream consumers such as the
// mailer and the company dashboard indexer.
type Event struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	UserID       uuid.UUID  `json:"userId"`
	ProfileID    uuid.UUID  `json:"profileId"`
	JobID        *uuid.UUID `json:"jobId,omitempty"`
	OverallScore float64    `json:"overallScore"`
	Skills       []string   `json:"skills,omitempty"`
	OccurredAt   time.Time  `json:"occurredAt"`
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher publishes domain events to a topic exchange. A Publisher built
// without a URL discards events, so the service runs without RabbitMQ.
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
	closed   bool
	log      *zap.Logger
}

func NewRabbitMQ(cfg config.BrokerConfig, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.URL == "" {
		log.Info("rabbitmq not configured, events disabled")
		return &Publisher{exchange: cfg.Exchange, log: log}, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	p, err := newPublisher(ch, cfg.Exchange, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	log.Info("rabbitmq connected", zap.String("exchange", cfg.Exchange))
	return p, nil
}

func newPublisher(ch channel, exchange string, log *zap.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("rabbitmq exchange declare: %w", err)
	}
	return &Publisher{ch: ch, exchange: exchange, log: log}, nil
}

func (p *Publisher) Enabled() bool {
	return p != nil && p.ch != nil
}

// Publish sends evt with its Type as routing key. ID and OccurredAt are
// filled in when empty.
func (p *Publisher) Publish(ctx context.Context, evt Event) error {
	if !p.Enabled() {
		return nil
	}
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, evt.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    evt.ID.String(),
		Timestamp:    evt.OccurredAt,
		Type:         evt.Type,
		Body:         body,
	})
	if err != nil {
		p.log.Warn("event publish failed", zap.String("type", evt.Type), zap.Error(err))
		return fmt.Errorf("publish %s: %w", evt.Type, err)
	}
	p.log.Debug("event published", zap.String("type", evt.Type), zap.String("event_id", evt.ID.String()))
	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}
