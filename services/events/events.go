// Package events publishes domain events after state changes.
package events

import (
	"context"
	"sync"
	"time"

	"concierge/models"
	"concierge/utils"

	"go.uber.org/zap"
)

// Publisher delivers a domain event. Publishing is best effort: callers log failures
// and never roll back the state change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, evt models.DomainEvent) error
	Close() error
}

// New builds an event with a fresh id.
func New(eventType, entityID, actorID string, at time.Time, data map[string]any) models.DomainEvent {
	return models.DomainEvent{
		ID:         utils.NewID("evt"),
		Type:       eventType,
		EntityID:   entityID,
		ActorID:    actorID,
		Data:       data,
		OccurredAt: at,
	}
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, evt models.DomainEvent) error {
	p.logger.Info("Domain event",
		zap.String("type", evt.Type),
		zap.String("entity", evt.EntityID),
		zap.String("actor", evt.ActorID),
		zap.Any("data", evt.Data))
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

func (r *Recorder) Publish(_ context.Context, evt models.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []models.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types lists the published event types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
