// Package storage keeps files shared in conversations on hosted storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxFileSize caps a single attachment.
const MaxFileSize = 10 << 20

// ErrRejected is returned for files the back office will not host.
var ErrRejected = errors.New("file rejected")

// Upload is one file received from a caller.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// File is a stored upload.
type File struct {
	PublicID string
	URL      string
	Size     int64
}

// FileStore defines the storage operations the service needs.
type FileStore interface {
	UploadFile(ctx context.Context, folder string, u Upload) (*File, error)
	DeleteFile(ctx context.Context, publicID string) error
}

var allowedTypes = []string{
	"image/",
	"application/pdf",
	"text/plain",
	"text/csv",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.",
}

// Validate checks size and content type before anything leaves the process.
func Validate(u Upload) error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("%w: file name is required", ErrRejected)
	}
	if u.Size <= 0 {
		return fmt.Errorf("%w: %s is empty", ErrRejected, u.Name)
	}
	if u.Size > MaxFileSize {
		return fmt.Errorf("%w: %s is larger than %d bytes", ErrRejected, u.Name, MaxFileSize)
	}
	ct := strings.ToLower(u.ContentType)
	for _, prefix := range allowedTypes {
		if strings.HasPrefix(ct, prefix) {
			return nil
		}
	}
	return fmt.Errorf("%w: content type %q is not allowed", ErrRejected, u.ContentType)
}

// ConversationFolder is where a conversation's attachments live.
func ConversationFolder(conversationID string) string {
	return "conversations/" + conversationID
}
