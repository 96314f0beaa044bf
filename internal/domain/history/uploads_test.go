package history

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newUploadService() *Service {
	svc := NewService(&fakeData{}, zerolog.Nop())
	svc.uploads.now = func() time.Time { return time.Date(2024, 7, 16, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestService_AddFiles(t *testing.T) {
	svc := newUploadService()

	added := svc.AddFiles("p1", []FilePick{
		{Name: "scan.pdf", Size: 2048, MimeType: "application/pdf", URI: "file:///scan.pdf"},
		{Name: "xray.jpg", Size: 1024, MimeType: "image/jpeg", URI: "file:///xray.jpg"},
	})

	if len(added) != 2 {
		t.Fatalf("expected 2 added, got %d", len(added))
	}
	if added[0].Name != "scan.pdf" || added[0].Type != "application/pdf" {
		t.Errorf("unexpected entry: %+v", added[0])
	}
	if added[0].UploadDate != "16-07-2024" {
		t.Errorf("expected upload date 16-07-2024, got %s", added[0].UploadDate)
	}
	if !strings.HasPrefix(added[0].ID, "1721124000000-") {
		t.Errorf("expected id prefixed by pick time millis, got %s", added[0].ID)
	}
	if added[0].ID == added[1].ID {
		t.Error("expected distinct ids for files picked together")
	}

	if files := svc.Files("p1"); len(files) != 2 {
		t.Errorf("expected 2 stored files, got %d", len(files))
	}
}

func TestService_AddFiles_EmptyPick(t *testing.T) {
	svc := newUploadService()

	added := svc.AddFiles("p1", nil)
	if len(added) != 0 {
		t.Errorf("expected cancellation to add nothing, got %d", len(added))
	}
	if files := svc.Files("p1"); len(files) != 0 {
		t.Errorf("expected empty list, got %d", len(files))
	}
}

func TestService_RemoveFile(t *testing.T) {
	svc := newUploadService()

	added := svc.AddFiles("p1", []FilePick{
		{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"},
	})

	if !svc.RemoveFile("p1", added[1].ID) {
		t.Fatal("expected removal to succeed")
	}

	files := svc.Files("p1")
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	// Remaining entries keep their order.
	if files[0].Name != "a.pdf" || files[1].Name != "c.pdf" {
		t.Errorf("unexpected order after removal: %s, %s", files[0].Name, files[1].Name)
	}

	if svc.RemoveFile("p1", "no-such-id") {
		t.Error("expected removal of unknown id to fail")
	}
}

func TestService_FilesAreScopedByPatient(t *testing.T) {
	svc := newUploadService()

	svc.AddFiles("p1", []FilePick{{Name: "a.pdf"}})
	svc.AddFiles("p2", []FilePick{{Name: "b.pdf"}, {Name: "c.pdf"}})

	if len(svc.Files("p1")) != 1 || len(svc.Files("p2")) != 2 {
		t.Error("expected per-patient separation of upload lists")
	}
}

func TestService_SaveFiles(t *testing.T) {
	svc := newUploadService()

	svc.AddFiles("p1", []FilePick{{Name: "a.pdf"}, {Name: "b.pdf"}})

	if saved := svc.SaveFiles("p1"); saved != 2 {
		t.Errorf("expected 2 saved, got %d", saved)
	}
	// Saving does not clear the list.
	if len(svc.Files("p1")) != 2 {
		t.Error("expected files to survive a save")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2359296, "2.25 MB"},
		{1073741824, "1 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.bytes); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
