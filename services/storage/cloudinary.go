package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore implements FileStore on Cloudinary. Every folder is nested under root.
type CloudinaryStore struct {
	cld  *cloudinary.Cloudinary
	root string
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret, root string) (*CloudinaryStore, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not set in configuration")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, root: root}, nil
}

// UploadFile streams the upload into folder and returns its permanent identifier and URL.
func (s *CloudinaryStore) UploadFile(ctx context.Context, folder string, u Upload) (*File, error) {
	params := uploader.UploadParams{
		Folder:       path.Join(s.root, folder),
		ResourceType: "auto",
	}
	result, err := s.cld.Upload.Upload(ctx, u.Body, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", u.Name, err)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("no public ID returned for %s", u.Name)
	}
	size := int64(result.Bytes)
	if size == 0 {
		size = u.Size
	}
	return &File{PublicID: result.PublicID, URL: result.SecureURL, Size: size}, nil
}

func (s *CloudinaryStore) DeleteFile(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", publicID, err)
	}
	return nil
}
