package concierge

import (
	"context"
	"errors"

	"concierge/models"
	"concierge/services/storage"

	"go.uber.org/zap"
)

// UploadAttachments stores files for a communication on the conversation. Uploads run
// outside the mutation lock; if one fails, the files already stored are removed.
func (s *Service) UploadAttachments(ctx context.Context, user models.User, conversationID string, uploads []storage.Upload) ([]models.Attachment, error) {
	if len(uploads) == 0 {
		return nil, nil
	}
	if _, err := s.visibleConversation(ctx, user, conversationID); err != nil {
		return nil, err
	}
	if s.Files == nil {
		return nil, ErrStorageUnavailable
	}
	for _, u := range uploads {
		if err := storage.Validate(u); err != nil {
			return nil, invalid(err.Error())
		}
	}

	folder := storage.ConversationFolder(conversationID)
	out := make([]models.Attachment, 0, len(uploads))
	for _, u := range uploads {
		f, err := s.Files.UploadFile(ctx, folder, u)
		if err != nil {
			s.DiscardAttachments(ctx, out)
			return nil, err
		}
		out = append(out, models.Attachment{
			ID:   f.PublicID,
			Name: u.Name,
			Type: u.ContentType,
			Size: f.Size,
			URL:  f.URL,
		})
	}
	s.Logger.Info("Stored attachments",
		zap.String("conversationID", conversationID),
		zap.Int("count", len(out)))
	return out, nil
}

// DiscardAttachments removes stored files whose communication was never recorded.
func (s *Service) DiscardAttachments(ctx context.Context, attachments []models.Attachment) {
	if s.Files == nil {
		return
	}
	var errs []error
	for _, a := range attachments {
		if err := s.Files.DeleteFile(ctx, a.ID); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.Logger.Warn("Failed to remove orphaned attachments", zap.Error(err))
	}
}
