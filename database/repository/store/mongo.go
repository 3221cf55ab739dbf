package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"concierge/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB, one collection per table.
// Documents are keyed by their "id" field; insertion order follows the generated _id.
type MongoStore struct {
	users          *mongo.Collection
	clients        *mongo.Collection
	conversations  *mongo.Collection
	bookings       *mongo.Collection
	communications *mongo.Collection
	notes          *mongo.Collection
	invoices       *mongo.Collection
	payments       *mongo.Collection
}

// NewMongoStore binds the collections of dbName and makes sure their indexes exist.
func NewMongoStore(ctx context.Context, client *mongo.Client, dbName string) (*MongoStore, error) {
	db := client.Database(dbName)
	s := &MongoStore{
		users:          db.Collection("users"),
		clients:        db.Collection("clients"),
		conversations:  db.Collection("conversations"),
		bookings:       db.Collection("bookings"),
		communications: db.Collection("communications"),
		notes:          db.Collection("internal_notes"),
		invoices:       db.Collection("invoices"),
		payments:       db.Collection("payments"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	unique := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}, Options: options.Index().SetUnique(true)}
	}
	byKey := func(key string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{{Key: key, Value: 1}}}
	}

	plan := map[*mongo.Collection][]mongo.IndexModel{
		s.users:          {unique("id"), unique("email")},
		s.clients:        {unique("id")},
		s.conversations:  {unique("id"), byKey("client_id"), byKey("assignee_id")},
		s.bookings:       {unique("id"), byKey("conversation_id"), byKey("assignee_id")},
		s.communications: {unique("id"), byKey("conversation_id")},
		s.notes:          {unique("id"), byKey("conversation_id")},
		s.invoices:       {unique("id"), byKey("booking_id")},
		s.payments:       {unique("id"), byKey("invoice_id")},
	}
	for coll, idx := range plan {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, kind, key string) (*T, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(kind, key)
		}
		return nil, fmt.Errorf("failed to fetch %s %s: %w", kind, key, err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection) ([]T, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

func upsert(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, bson.M{"id": id}, doc, opts); err != nil {
		return fmt.Errorf("failed to save %s %s: %w", coll.Name(), id, err)
	}
	return nil
}

func insert(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert %s %s: %w", coll.Name(), id, err)
	}
	return nil
}

func insertIfAbsent(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	opts := options.Update().SetUpsert(true)
	if _, err := coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$setOnInsert": doc}, opts); err != nil {
		return fmt.Errorf("failed to seed %s %s: %w", coll.Name(), id, err)
	}
	return nil
}

func (s *MongoStore) Snapshot(ctx context.Context) (*Tables, error) {
	var (
		t   Tables
		err error
	)
	if t.Users, err = findAll[models.User](ctx, s.users); err != nil {
		return nil, err
	}
	if t.Clients, err = findAll[models.Client](ctx, s.clients); err != nil {
		return nil, err
	}
	if t.Conversations, err = findAll[models.Conversation](ctx, s.conversations); err != nil {
		return nil, err
	}
	if t.Bookings, err = findAll[models.Booking](ctx, s.bookings); err != nil {
		return nil, err
	}
	if t.Communications, err = findAll[models.Communication](ctx, s.communications); err != nil {
		return nil, err
	}
	if t.InternalNotes, err = findAll[models.InternalNote](ctx, s.notes); err != nil {
		return nil, err
	}
	if t.Invoices, err = findAll[models.Invoice](ctx, s.invoices); err != nil {
		return nil, err
	}
	if t.Payments, err = findAll[models.Payment](ctx, s.payments); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.users, bson.M{"id": id}, "user", id)
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := bson.M{"email": bson.M{"$regex": "^" + regexp.QuoteMeta(email) + "$", "$options": "i"}}
	return findOne[models.User](ctx, s.users, filter, "user with email", email)
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, s.users)
}

func (s *MongoStore) SaveUser(ctx context.Context, u *models.User) error {
	return upsert(ctx, s.users, u.ID, u)
}

func (s *MongoStore) GetClient(ctx context.Context, id string) (*models.Client, error) {
	return findOne[models.Client](ctx, s.clients, bson.M{"id": id}, "client", id)
}

func (s *MongoStore) SaveClient(ctx context.Context, c *models.Client) error {
	return upsert(ctx, s.clients, c.ID, c)
}

func (s *MongoStore) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	return findOne[models.Conversation](ctx, s.conversations, bson.M{"id": id}, "conversation", id)
}

func (s *MongoStore) SaveConversation(ctx context.Context, c *models.Conversation) error {
	return upsert(ctx, s.conversations, c.ID, c)
}

func (s *MongoStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return findOne[models.Booking](ctx, s.bookings, bson.M{"id": id}, "booking", id)
}

func (s *MongoStore) SaveBooking(ctx context.Context, b *models.Booking) error {
	return upsert(ctx, s.bookings, b.ID, b)
}

func (s *MongoStore) AddCommunication(ctx context.Context, m *models.Communication) error {
	return insert(ctx, s.communications, m.ID, m)
}

func (s *MongoStore) AddInternalNote(ctx context.Context, n *models.InternalNote) error {
	return insert(ctx, s.notes, n.ID, n)
}

func (s *MongoStore) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	return findOne[models.Invoice](ctx, s.invoices, bson.M{"id": id}, "invoice", id)
}

func (s *MongoStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return findAll[models.Invoice](ctx, s.invoices)
}

func (s *MongoStore) SaveInvoice(ctx context.Context, inv *models.Invoice) error {
	return upsert(ctx, s.invoices, inv.ID, inv)
}

func (s *MongoStore) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return findOne[models.Payment](ctx, s.payments, bson.M{"id": id}, "payment", id)
}

func (s *MongoStore) SavePayment(ctx context.Context, p *models.Payment) error {
	return upsert(ctx, s.payments, p.ID, p)
}

func (s *MongoStore) Seed(ctx context.Context, t *Tables) error {
	ctx, cancel := newContext(ctx, 30*time.Second)
	defer cancel()

	for i := range t.Users {
		if err := insertIfAbsent(ctx, s.users, t.Users[i].ID, &t.Users[i]); err != nil {
			return err
		}
	}
	for i := range t.Clients {
		if err := insertIfAbsent(ctx, s.clients, t.Clients[i].ID, &t.Clients[i]); err != nil {
			return err
		}
	}
	for i := range t.Conversations {
		if err := insertIfAbsent(ctx, s.conversations, t.Conversations[i].ID, &t.Conversations[i]); err != nil {
			return err
		}
	}
	for i := range t.Bookings {
		if err := insertIfAbsent(ctx, s.bookings, t.Bookings[i].ID, &t.Bookings[i]); err != nil {
			return err
		}
	}
	for i := range t.Communications {
		if err := insertIfAbsent(ctx, s.communications, t.Communications[i].ID, &t.Communications[i]); err != nil {
			return err
		}
	}
	for i := range t.InternalNotes {
		if err := insertIfAbsent(ctx, s.notes, t.InternalNotes[i].ID, &t.InternalNotes[i]); err != nil {
			return err
		}
	}
	for i := range t.Invoices {
		if err := insertIfAbsent(ctx, s.invoices, t.Invoices[i].ID, &t.Invoices[i]); err != nil {
			return err
		}
	}
	for i := range t.Payments {
		if err := insertIfAbsent(ctx, s.payments, t.Payments[i].ID, &t.Payments[i]); err != nil {
			return err
		}
	}
	return nil
}
