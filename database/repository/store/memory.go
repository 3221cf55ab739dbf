package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"concierge/models"
)

// table keeps rows in insertion order with an id index for point lookups.
type table[T any] struct {
	rows  []T
	index map[string]int
	id    func(*T) string
}

func newTable[T any](id func(*T) string) *table[T] {
	return &table[T]{index: make(map[string]int), id: id}
}

func (t *table[T]) get(id string) (*T, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	row := t.rows[i]
	return &row, true
}

// upsert replaces the row in place so its position in insertion order is kept.
func (t *table[T]) upsert(row T) {
	id := t.id(&row)
	if i, ok := t.index[id]; ok {
		t.rows[i] = row
		return
	}
	t.index[id] = len(t.rows)
	t.rows = append(t.rows, row)
}

func (t *table[T]) insertIfAbsent(row T) {
	if _, ok := t.index[t.id(&row)]; ok {
		return
	}
	t.upsert(row)
}

func (t *table[T]) all() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

// MemoryStore keeps every table in process memory.
// Rows are copied in and out, so callers never share state with the store.
type MemoryStore struct {
	mu             sync.RWMutex
	users          *table[models.User]
	clients        *table[models.Client]
	conversations  *table[models.Conversation]
	bookings       *table[models.Booking]
	communications *table[models.Communication]
	notes          *table[models.InternalNote]
	invoices       *table[models.Invoice]
	payments       *table[models.Payment]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:          newTable(func(u *models.User) string { return u.ID }),
		clients:        newTable(func(c *models.Client) string { return c.ID }),
		conversations:  newTable(func(c *models.Conversation) string { return c.ID }),
		bookings:       newTable(func(b *models.Booking) string { return b.ID }),
		communications: newTable(func(m *models.Communication) string { return m.ID }),
		notes:          newTable(func(n *models.InternalNote) string { return n.ID }),
		invoices:       newTable(func(i *models.Invoice) string { return i.ID }),
		payments:       newTable(func(p *models.Payment) string { return p.ID }),
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func (s *MemoryStore) Snapshot(_ context.Context) (*Tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Tables{
		Users:          s.users.all(),
		Clients:        s.clients.all(),
		Conversations:  s.conversations.all(),
		Bookings:       s.bookings.all(),
		Communications: s.communications.all(),
		InternalNotes:  s.notes.all(),
		Invoices:       s.invoices.all(),
		Payments:       s.payments.all(),
	}, nil
}

func (s *MemoryStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users.get(id); ok {
		return u, nil
	}
	return nil, notFound("user", id)
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users.rows {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, notFound("user with email", email)
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users.all(), nil
}

func (s *MemoryStore) SaveUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users.upsert(*u)
	return nil
}

func (s *MemoryStore) GetClient(_ context.Context, id string) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.clients.get(id); ok {
		return c, nil
	}
	return nil, notFound("client", id)
}

func (s *MemoryStore) SaveClient(_ context.Context, c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients.upsert(*c)
	return nil
}

func (s *MemoryStore) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.conversations.get(id); ok {
		return c, nil
	}
	return nil, notFound("conversation", id)
}

func (s *MemoryStore) SaveConversation(_ context.Context, c *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations.upsert(*c)
	return nil
}

func (s *MemoryStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.bookings.get(id); ok {
		return b, nil
	}
	return nil, notFound("booking", id)
}

func (s *MemoryStore) SaveBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings.upsert(*b)
	return nil
}

func (s *MemoryStore) AddCommunication(_ context.Context, m *models.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.communications.get(m.ID); exists {
		return fmt.Errorf("communication %s already exists", m.ID)
	}
	s.communications.upsert(*m)
	return nil
}

func (s *MemoryStore) AddInternalNote(_ context.Context, n *models.InternalNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.notes.get(n.ID); exists {
		return fmt.Errorf("internal note %s already exists", n.ID)
	}
	s.notes.upsert(*n)
	return nil
}

func (s *MemoryStore) GetInvoice(_ context.Context, id string) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if inv, ok := s.invoices.get(id); ok {
		return inv, nil
	}
	return nil, notFound("invoice", id)
}

func (s *MemoryStore) ListInvoices(_ context.Context) ([]models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invoices.all(), nil
}

func (s *MemoryStore) SaveInvoice(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices.upsert(*inv)
	return nil
}

func (s *MemoryStore) GetPayment(_ context.Context, id string) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.payments.get(id); ok {
		return p, nil
	}
	return nil, notFound("payment", id)
}

func (s *MemoryStore) SavePayment(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments.upsert(*p)
	return nil
}

func (s *MemoryStore) Seed(_ context.Context, t *Tables) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range t.Users {
		s.users.insertIfAbsent(r)
	}
	for _, r := range t.Clients {
		s.clients.insertIfAbsent(r)
	}
	for _, r := range t.Conversations {
		s.conversations.insertIfAbsent(r)
	}
	for _, r := range t.Bookings {
		s.bookings.insertIfAbsent(r)
	}
	for _, r := range t.Communications {
		s.communications.insertIfAbsent(r)
	}
	for _, r := range t.InternalNotes {
		s.notes.insertIfAbsent(r)
	}
	for _, r := range t.Invoices {
		s.invoices.insertIfAbsent(r)
	}
	for _, r := range t.Payments {
		s.payments.insertIfAbsent(r)
	}
	return nil
}
