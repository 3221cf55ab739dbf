// Package concierge is the mutation and query service behind the HTTP API.
// Every operation checks the caller's visibility before touching a record.
package concierge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"concierge/database/repository/readstate"
	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/events"
	"concierge/services/payment"
	"concierge/services/permissions"
	"concierge/services/storage"

	"go.uber.org/zap"
)

// Service owns the read-modify-write cycle over the store.
type Service struct {
	Store     store.Store
	Events    events.Publisher
	Payments  payment.Processor
	ReadState readstate.ReadState
	Logger    *zap.Logger

	// Files hosts communication attachments. Nil disables uploads.
	Files storage.FileStore

	// Now is the clock. Tests pin it.
	Now      func() time.Time
	TokenTTL time.Duration
	Currency string

	// mu serializes mutations so two requests never interleave a read and a write
	// on the same records.
	mu sync.Mutex
}

type Option func(*Service)

func WithClock(now func() time.Time) Option { return func(s *Service) { s.Now = now } }

func WithTokenTTL(ttl time.Duration) Option { return func(s *Service) { s.TokenTTL = ttl } }

func WithCurrency(currency string) Option { return func(s *Service) { s.Currency = currency } }

func WithFileStore(files storage.FileStore) Option { return func(s *Service) { s.Files = files } }

func New(st store.Store, pub events.Publisher, proc payment.Processor, rs readstate.ReadState, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		Store:     st,
		Events:    pub,
		Payments:  proc,
		ReadState: rs,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
		TokenTTL:  12 * time.Hour,
		Currency:  "gbp",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scope loads a snapshot and the caller's viewer over it.
func (s *Service) scope(ctx context.Context, user models.User) (*store.Tables, *permissions.Viewer, error) {
	t, err := s.Store.Snapshot(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return t, permissions.NewViewer(user, t.Clients), nil
}

func (s *Service) publish(ctx context.Context, eventType, entityID, actorID string, data map[string]any) {
	evt := events.New(eventType, entityID, actorID, s.Now(), data)
	if err := s.Events.Publish(ctx, evt); err != nil {
		s.Logger.Warn("Failed to publish domain event",
			zap.String("type", eventType),
			zap.String("entity", entityID),
			zap.Error(err))
	}
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func illegal(kind, id string, from, to any) error {
	return fmt.Errorf("%w: %s %s cannot move from %v to %v", ErrIllegalTransition, kind, id, from, to)
}

// pick copies the row whose id matches, or returns a not-found error naming kind.
func pick[T any](rows []T, id string, idOf func(*T) string, kind string) (*T, error) {
	for i := range rows {
		if idOf(&rows[i]) == id {
			row := rows[i]
			return &row, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func conversationID(c *models.Conversation) string { return c.ID }
func bookingID(b *models.Booking) string           { return b.ID }
func invoiceID(inv *models.Invoice) string         { return inv.ID }
func paymentID(p *models.Payment) string           { return p.ID }
func clientID(c *models.Client) string             { return c.ID }
