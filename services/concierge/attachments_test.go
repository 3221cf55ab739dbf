package concierge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"concierge/services/storage"
)

type fakeFiles struct {
	uploaded []string
	deleted  []string
	failOn   string
}

func (f *fakeFiles) UploadFile(_ context.Context, folder string, u storage.Upload) (*storage.File, error) {
	if u.Name == f.failOn {
		return nil, errors.New("upload refused")
	}
	body, _ := io.ReadAll(u.Body)
	id := folder + "/" + u.Name
	f.uploaded = append(f.uploaded, id)
	return &storage.File{PublicID: id, URL: "https://files.example.com/" + id, Size: int64(len(body))}, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func upload(name, contentType, body string) storage.Upload {
	return storage.Upload{Name: name, ContentType: contentType, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestUploadAttachmentsThenAddCommunication(t *testing.T) {
	f := newFixture(t)
	files := &fakeFiles{}
	f.svc.Files = files
	ctx := context.Background()
	user := f.vipManager(t)

	atts, err := f.svc.UploadAttachments(ctx, user, "conv-1", []storage.Upload{
		upload("passport.pdf", "application/pdf", "%PDF-1.4"),
		upload("car.jpg", "image/jpeg", "jpeg"),
	})
	if err != nil {
		t.Fatalf("UploadAttachments: %v", err)
	}
	if len(atts) != 2 || atts[0].ID != "conversations/conv-1/passport.pdf" || atts[0].Size != 8 || atts[1].Type != "image/jpeg" {
		t.Fatalf("attachments = %+v", atts)
	}

	msg, err := f.svc.AddCommunication(ctx, user, "conv-1", CommunicationInput{Message: "Documents attached", Attachments: atts})
	if err != nil {
		t.Fatalf("AddCommunication: %v", err)
	}
	if len(msg.Attachments) != 2 || msg.Attachments[0].URL == "" {
		t.Errorf("stored message attachments = %+v", msg.Attachments)
	}
}

func TestUploadAttachmentsRejections(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		conv     string
		noStore  bool
		uploads  []storage.Upload
		wantErr  error
		uploaded int
	}{
		{"not visible", "usr-4", "conv-1", false, []storage.Upload{upload("a.pdf", "application/pdf", "x")}, ErrForbidden, 0},
		{"missing conversation", "usr-1", "conv-none", false, []storage.Upload{upload("a.pdf", "application/pdf", "x")}, ErrNotFound, 0},
		{"storage disabled", "usr-1", "conv-1", true, []storage.Upload{upload("a.pdf", "application/pdf", "x")}, ErrStorageUnavailable, 0},
		{"disallowed type", "usr-1", "conv-1", false, []storage.Upload{
			upload("a.pdf", "application/pdf", "x"),
			upload("run.exe", "application/x-msdownload", "x"),
		}, ErrInvalidInput, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			files := &fakeFiles{}
			if !tt.noStore {
				f.svc.Files = files
			}
			_, err := f.svc.UploadAttachments(context.Background(), f.user(t, tt.user), tt.conv, tt.uploads)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(files.uploaded) != tt.uploaded {
				t.Errorf("uploaded = %v", files.uploaded)
			}
		})
	}
}

func TestUploadAttachmentsRemovesPartialUploads(t *testing.T) {
	f := newFixture(t)
	files := &fakeFiles{failOn: "second.pdf"}
	f.svc.Files = files

	_, err := f.svc.UploadAttachments(context.Background(), f.admin(t), "conv-3", []storage.Upload{
		upload("first.pdf", "application/pdf", "1"),
		upload("second.pdf", "application/pdf", "2"),
	})
	if err == nil {
		t.Fatal("expected the failed upload to surface")
	}
	want := fmt.Sprint([]string{"conversations/conv-3/first.pdf"})
	if fmt.Sprint(files.deleted) != want {
		t.Errorf("deleted = %v, want %s", files.deleted, want)
	}
}
