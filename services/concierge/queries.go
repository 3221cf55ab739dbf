package concierge

import (
	"context"
	"fmt"
	"time"

	"concierge/database/repository/store"
	"concierge/models"
	"concierge/services/dashboard"
	"concierge/services/invoicepdf"
	"concierge/services/listing"
	"concierge/services/permissions"
	"concierge/services/relations"

	"go.uber.org/zap"
)

func (s *Service) Dashboard(ctx context.Context, user models.User) (*models.DashboardMetrics, error) {
	t, err := s.Store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	metrics := dashboard.Compute(user, t, s.Now())
	return &metrics, nil
}

// scopeConversation trims the children of a visible conversation down to what the viewer may see.
func scopeConversation(view *models.ConversationWithRelations, v *permissions.Viewer, t *store.Tables) {
	view.Bookings = v.FilterBookings(view.Bookings)
	view.Invoices = v.FilterInvoices(view.Invoices, t.Bookings)
	view.Payments = v.FilterPayments(view.Payments, t.Invoices, t.Bookings)
}

// scopeBooking hides the originating conversation once it belongs to someone the viewer cannot see.
func scopeBooking(view *models.BookingWithRelations, v *permissions.Viewer) {
	if view.Conversation != nil && !v.CanSeeConversation(view.Conversation) {
		view.Conversation = nil
	}
}

func (s *Service) lastRead(ctx context.Context, userID string) map[string]time.Time {
	marks, err := s.ReadState.LastRead(ctx, userID)
	if err != nil {
		s.Logger.Warn("Failed to load read markers, treating inbox as unread",
			zap.String("userID", userID), zap.Error(err))
		return map[string]time.Time{}
	}
	return marks
}

// ListConversations is the viewer's inbox after filtering and sorting.
func (s *Service) ListConversations(ctx context.Context, user models.User, f listing.ConversationFilter, field listing.SortField, dir listing.SortDirection) ([]models.InboxItem, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	if !field.Valid() {
		field = listing.SortLastActivity
	}
	if dir != listing.Asc {
		dir = listing.Desc
	}

	a := relations.New(t, s.Now())
	var visible []models.ConversationWithRelations
	for _, view := range a.AllConversations() {
		if !v.CanSeeConversation(&view.Conversation) {
			continue
		}
		scopeConversation(&view, v, t)
		visible = append(visible, view)
	}
	rows := listing.FilterConversations(visible, f)
	listing.SortConversations(rows, field, dir)

	marks := s.lastRead(ctx, user.ID)
	items := make([]models.InboxItem, 0, len(rows))
	for i := range rows {
		items = append(items, models.InboxItem{
			ConversationWithRelations: rows[i],
			Unread:                    listing.IsUnread(&rows[i], marks),
		})
	}
	return items, nil
}

func (s *Service) GetConversation(ctx context.Context, user models.User, id string) (*models.InboxItem, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	view, ok := relations.New(t, s.Now()).Conversation(id)
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	if !v.CanSeeConversation(&view.Conversation) {
		return nil, ErrForbidden
	}
	scopeConversation(view, v, t)
	return &models.InboxItem{
		ConversationWithRelations: *view,
		Unread:                    listing.IsUnread(view, s.lastRead(ctx, user.ID)),
	}, nil
}

func (s *Service) ListBookings(ctx context.Context, user models.User, f listing.RecordFilter[models.BookingStatus]) ([]models.BookingWithRelations, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	var visible []models.BookingWithRelations
	for _, view := range relations.New(t, s.Now()).AllBookings() {
		if v.CanSeeBooking(&view.Booking) {
			scopeBooking(&view, v)
			visible = append(visible, view)
		}
	}
	return listing.FilterBookings(visible, f), nil
}

func (s *Service) GetBooking(ctx context.Context, user models.User, id string) (*models.BookingWithRelations, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	view, ok := relations.New(t, s.Now()).Booking(id)
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if !v.CanSeeBooking(&view.Booking) {
		return nil, ErrForbidden
	}
	scopeBooking(view, v)
	return view, nil
}

func (s *Service) ListInvoices(ctx context.Context, user models.User, f listing.RecordFilter[models.InvoiceStatus]) ([]models.InvoiceWithRelations, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	var visible []models.InvoiceWithRelations
	for _, view := range relations.New(t, s.Now()).AllInvoices() {
		if v.CanSeeInvoice(&view.Invoice, t.Bookings) {
			visible = append(visible, view)
		}
	}
	return listing.FilterInvoices(visible, f), nil
}

func (s *Service) GetInvoice(ctx context.Context, user models.User, id string) (*models.InvoiceWithRelations, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	view, ok := relations.New(t, s.Now()).Invoice(id)
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	if !v.CanSeeInvoice(&view.Invoice, t.Bookings) {
		return nil, ErrForbidden
	}
	return view, nil
}

// InvoicePDF renders the printable invoice document.
func (s *Service) InvoicePDF(ctx context.Context, user models.User, id string) ([]byte, error) {
	view, err := s.GetInvoice(ctx, user, id)
	if err != nil {
		return nil, err
	}
	doc, err := invoicepdf.Render(view, s.Currency)
	if err != nil {
		return nil, fmt.Errorf("failed to render invoice %s: %w", id, err)
	}
	return doc, nil
}

func (s *Service) ListPayments(ctx context.Context, user models.User, f listing.RecordFilter[models.PaymentStatus]) ([]models.PaymentWithRelations, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	var visible []models.PaymentWithRelations
	for _, view := range relations.New(t, s.Now()).AllPayments() {
		if v.CanSeePayment(&view.Payment, t.Invoices, t.Bookings) {
			visible = append(visible, view)
		}
	}
	return listing.FilterPayments(visible, f), nil
}

func (s *Service) ListClients(ctx context.Context, user models.User, f listing.ClientFilter) ([]models.ClientRow, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	return listing.FilterClients(clientRows(t, v), f), nil
}

func (s *Service) GetClient(ctx context.Context, user models.User, id string) (*models.ClientDetail, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := pick(t.Clients, id, clientID, "client"); err != nil {
		return nil, err
	}
	if !v.CanSeeClient(id, t.Conversations) {
		return nil, ErrForbidden
	}
	for _, row := range clientRows(t, v) {
		if row.ID != id {
			continue
		}
		convs := []models.Conversation{}
		for _, c := range v.FilterConversations(t.Conversations) {
			if c.ClientID == id {
				convs = append(convs, c)
			}
		}
		return &models.ClientDetail{ClientRow: row, Conversations: convs}, nil
	}
	return nil, fmt.Errorf("client %s: %w", id, ErrNotFound)
}

// ListUsers is the staff directory. Only admins may read it.
func (s *Service) ListUsers(ctx context.Context, user models.User) ([]models.User, error) {
	if user.Role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	return s.Store.ListUsers(ctx)
}
