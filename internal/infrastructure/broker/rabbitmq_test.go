package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"skill-assess/internal/config"
)

type fakeChannel struct {
	declared   []string
	published  []amqp.Publishing
	keys       []string
	publishErr error
	closed     int
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+":"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.keys = append(f.keys, exchange+"/"+key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

func TestNewRabbitMQ_WithoutURLDiscards(t *testing.T) {
	p, err := NewRabbitMQ(config.BrokerConfig{Exchange: "x"}, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Enabled() {
		t.Fatalf("expected disabled publisher")
	}
	if err := p.Publish(context.Background(), Event{Type: RoutingAssessmentCompleted}); err != nil {
		t.Fatalf("expected no-op publish, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected close err: %v", err)
	}
}

func TestPublish_SendsJSONWithRoutingKey(t *testing.T) {
	ch := &fakeChannel{}
	p, err := newPublisher(ch, "skill-assess.events", zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ch.declared) != 1 || ch.declared[0] != "skill-assess.events:topic" {
		t.Fatalf("unexpected exchange declarations %v", ch.declared)
	}

	user := uuid.New()
	if err := p.Publish(context.Background(), Event{Type: RoutingProfileSkillsUpdated, UserID: user, OverallScore: 74}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(ch.keys) != 1 || ch.keys[0] != "skill-assess.events/profile.skills_updated" {
		t.Fatalf("unexpected routing %v", ch.keys)
	}

	msg := ch.published[0]
	var got Event
	if err := json.Unmarshal(msg.Body, &got); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.UserID != user || got.ID == uuid.Nil || got.OccurredAt.IsZero() {
		t.Fatalf("unexpected event %+v", got)
	}
	if msg.MessageId != got.ID.String() || msg.DeliveryMode != amqp.Persistent {
		t.Fatalf("unexpected publishing headers %+v", msg)
	}
}

func TestPublish_FailureIsLoggedAndWrapped(t *testing.T) {
	boom := errors.New("channel closed")
	ch := &fakeChannel{publishErr: boom}
	core, logs := observer.New(zap.WarnLevel)
	p, _ := newPublisher(ch, "ex", zap.New(core))

	err := p.Publish(context.Background(), Event{Type: RoutingAssessmentCompleted})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped channel error, got %v", err)
	}
	if logs.FilterMessage("event publish failed").Len() != 1 {
		t.Fatalf("expected warning, got %v", logs.All())
	}
}

func TestPublish_AfterClose(t *testing.T) {
	ch := &fakeChannel{}
	p, _ := newPublisher(ch, "ex", zap.NewNop())
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := p.Close(); err != nil || ch.closed != 1 {
		t.Fatalf("expected single close, got %d (%v)", ch.closed, err)
	}
	if err := p.Publish(context.Background(), Event{Type: "x"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
