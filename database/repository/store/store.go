// Package store holds the flat entity tables the back office works on.
package store

import (
	"context"
	"errors"

	"concierge/models"
)

// ErrNotFound is returned when a lookup by id misses.
var ErrNotFound = errors.New("record not found")

// Tables is a point-in-time copy of every table, in insertion order.
type Tables struct {
	Users          []models.User
	Clients        []models.Client
	Conversations  []models.Conversation
	Bookings       []models.Booking
	Communications []models.Communication
	InternalNotes  []models.InternalNote
	Invoices       []models.Invoice
	Payments       []models.Payment
}

// Store is the persistence collaborator shared by services and handlers.
// Save methods upsert by id; Add methods append to append-only tables.
type Store interface {
	// Snapshot copies every table. The logic core only ever reads snapshots.
	Snapshot(ctx context.Context) (*Tables, error)

	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, u *models.User) error

	GetClient(ctx context.Context, id string) (*models.Client, error)
	SaveClient(ctx context.Context, c *models.Client) error

	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	SaveConversation(ctx context.Context, c *models.Conversation) error

	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	SaveBooking(ctx context.Context, b *models.Booking) error

	AddCommunication(ctx context.Context, m *models.Communication) error
	AddInternalNote(ctx context.Context, n *models.InternalNote) error

	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	SaveInvoice(ctx context.Context, inv *models.Invoice) error

	GetPayment(ctx context.Context, id string) (*models.Payment, error)
	SavePayment(ctx context.Context, p *models.Payment) error

	// Seed loads a dataset table by table. Rows whose id already exists are left alone.
	Seed(ctx context.Context, t *Tables) error
}
