package concierge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"concierge/models"
	"concierge/services/lifecycle"
	"concierge/utils"
)

// CommunicationInput is a new message on a conversation thread.
type CommunicationInput struct {
	Sender      models.Sender       `json:"sender" form:"sender"`
	SenderName  string              `json:"senderName" form:"senderName"`
	Channel     models.Channel      `json:"channel" form:"channel"`
	Message     string              `json:"message" form:"message"`
	Attachments []models.Attachment `json:"attachments" form:"-"`
	Tags        []string            `json:"tags" form:"tags"`
}

// BookingInput overrides the values a new booking copies from its conversation.
type BookingInput struct {
	Title       string             `json:"title"`
	Category    models.ServiceType `json:"category"`
	ExecutionAt *time.Time         `json:"executionAt"`
	Location    string             `json:"location"`
	Price       float64            `json:"price"`
}

// visibleConversation loads a conversation the user is allowed to act on.
func (s *Service) visibleConversation(ctx context.Context, user models.User, id string) (*models.Conversation, error) {
	t, v, err := s.scope(ctx, user)
	if err != nil {
		return nil, err
	}
	conv, err := pick(t.Conversations, id, conversationID, "conversation")
	if err != nil {
		return nil, err
	}
	if !v.CanSeeConversation(conv) {
		return nil, ErrForbidden
	}
	return conv, nil
}

func (s *Service) TransitionConversation(ctx context.Context, user models.User, id string, target models.ConversationStatus) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.visibleConversation(ctx, user, id)
	if err != nil {
		return nil, err
	}
	from := conv.Status
	if !lifecycle.ApplyConversationTransition(conv, target, s.Now()) {
		return nil, illegal("conversation", id, from, target)
	}
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventConversationStatusChanged, conv.ID, user.ID, map[string]any{
		"from": from, "to": target,
	})
	return conv, nil
}

// activeAssignee resolves an assignee id. Nil means unassigned.
func (s *Service) activeAssignee(ctx context.Context, assigneeID *string) error {
	if assigneeID == nil {
		return nil
	}
	u, err := s.Store.GetUser(ctx, *assigneeID)
	if err != nil {
		return invalid(fmt.Sprintf("unknown assignee %s", *assigneeID))
	}
	if !u.IsActive {
		return invalid(fmt.Sprintf("assignee %s is inactive", u.ID))
	}
	return nil
}

func (s *Service) AssignConversation(ctx context.Context, user models.User, id string, assigneeID *string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.visibleConversation(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.activeAssignee(ctx, assigneeID); err != nil {
		return nil, err
	}
	conv.AssigneeID = assigneeID
	conv.UpdatedAt = s.Now()
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventConversationAssigned, conv.ID, user.ID, map[string]any{"assigneeId": assigneeID})
	return conv, nil
}

func (s *Service) AddCommunication(ctx context.Context, user models.User, id string, in CommunicationInput) (*models.Communication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.visibleConversation(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, invalid("message is required")
	}
	switch in.Sender {
	case "":
		in.Sender = models.SenderAgent
	case models.SenderAgent, models.SenderClient, models.SenderSystem:
	default:
		return nil, invalid(fmt.Sprintf("unknown sender %q", in.Sender))
	}
	if in.SenderName == "" && in.Sender == models.SenderAgent {
		in.SenderName = user.Name
	}
	if in.Channel == "" {
		in.Channel = conv.Channel
	}

	now := s.Now()
	msg := &models.Communication{
		ID:             utils.NewID("msg"),
		ConversationID: conv.ID,
		Sender:         in.Sender,
		SenderName:     in.SenderName,
		Channel:        in.Channel,
		Message:        in.Message,
		Attachments:    in.Attachments,
		Tags:           in.Tags,
		CreatedAt:      now,
	}
	if err := s.Store.AddCommunication(ctx, msg); err != nil {
		return nil, err
	}
	conv.UpdatedAt = now
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventCommunicationAdded, conv.ID, user.ID, map[string]any{
		"communicationId": msg.ID, "sender": msg.Sender,
	})
	return msg, nil
}

func (s *Service) AddInternalNote(ctx context.Context, user models.User, id, content string) (*models.InternalNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.visibleConversation(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("note content is required")
	}
	now := s.Now()
	note := &models.InternalNote{
		ID:             utils.NewID("note"),
		ConversationID: conv.ID,
		AuthorID:       user.ID,
		Content:        content,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Store.AddInternalNote(ctx, note); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventNoteAdded, conv.ID, user.ID, map[string]any{"noteId": note.ID})
	return note, nil
}

// MarkConversationRead records that the user has seen the conversation as of now.
func (s *Service) MarkConversationRead(ctx context.Context, user models.User, id string) error {
	if _, err := s.visibleConversation(ctx, user, id); err != nil {
		return err
	}
	if err := s.ReadState.MarkRead(ctx, user.ID, id, s.Now()); err != nil {
		return fmt.Errorf("failed to mark conversation %s read: %w", id, err)
	}
	return nil
}

// CreateBookingFromConversation converts an in-review conversation into a draft booking.
// The booking takes the conversation's client and assignee; empty input fields fall back
// to the conversation's title, service type, pickup date and pickup location.
func (s *Service) CreateBookingFromConversation(ctx context.Context, user models.User, id string, in BookingInput) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, err := s.visibleConversation(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, invalid("price cannot be negative")
	}

	now := s.Now()
	from := conv.Status
	if !lifecycle.ApplyConversationTransition(conv, models.ConversationConverted, now) {
		return nil, illegal("conversation", id, from, models.ConversationConverted)
	}

	b := &models.Booking{
		ID:             utils.NewID("bk"),
		ConversationID: conv.ID,
		ClientID:       conv.ClientID,
		AssigneeID:     conv.AssigneeID,
		Status:         models.BookingDraft,
		Title:          firstNonEmpty(in.Title, conv.Title),
		Category:       in.Category,
		ExecutionAt:    in.ExecutionAt,
		Location:       firstNonEmpty(in.Location, conv.PickupLocation),
		Price:          in.Price,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if b.Category == "" {
		b.Category = conv.ServiceType
	}
	if b.ExecutionAt == nil && conv.PickupDate != nil {
		at := *conv.PickupDate
		b.ExecutionAt = &at
	}
	lifecycle.AutoSchedule(b, now)

	if err := s.Store.SaveBooking(ctx, b); err != nil {
		return nil, err
	}
	if err := s.Store.SaveConversation(ctx, conv); err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventConversationStatusChanged, conv.ID, user.ID, map[string]any{
		"from": from, "to": conv.Status,
	})
	s.publish(ctx, models.EventBookingCreated, b.ID, user.ID, map[string]any{"conversationId": conv.ID})
	return b, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
