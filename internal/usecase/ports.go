package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"skill-assess/internal/infrastructure/broker"
	"skill-assess/internal/oracle"
)

// Oracle is satisfied by *oracle.Client.
type Oracle interface {
	Complete(ctx context.Context, req oracle.Request) (string, error)
	Provider() string
}

type EventPublisher interface {
	Publish(ctx context.Context, evt broker.Event) error
}

type ProfileNotifier interface {
	NotifyProfileUpdated(userID uuid.UUID, overallScore float64, source string)
}

// Models names the oracle model used by each flow.
type Models struct {
	Question string
	Analysis string
	Todo     string
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, broker.Event) error { return nil }

type noopNotifier struct{}

func (noopNotifier) NotifyProfileUpdated(uuid.UUID, float64, string) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

func notifierOrNoop(n ProfileNotifier) ProfileNotifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

type clock func() time.Time

func clockOrNow(c clock) clock {
	if c == nil {
		return time.Now
	}
	return c
}
