package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Alijeyrad/triage_backend/internal/repo"
)

func newTestService(t *testing.T, maxSize int64) (Service, *repo.Client) {
	t.Helper()
	db, err := repo.NewMemoryClient(context.Background())
	if err != nil {
		t.Fatalf("NewMemoryClient() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}
	db.Create(&repo.Patient{FingerprintID: 1, Name: "A", Age: 30, Sex: "Male", CreatedAt: time.Now().UTC()})
	return New(db, store, maxSize), db
}

func upload(svc Service, id int64, name, body string) (*repo.DoctorDocument, error) {
	return svc.Upload(context.Background(), UploadRequest{
		FingerprintID: id,
		Filename:      name,
		Size:          int64(len(body)),
		Body:          strings.NewReader(body),
	})
}

func TestUpload_Validation(t *testing.T) {
	svc, _ := newTestService(t, 16)

	tests := []struct {
		name     string
		id       int64
		filename string
		body     string
		wantErr  error
	}{
		{"no filename", 1, "", "%PDF-1", ErrNoFileSelected},
		{"not pdf", 1, "notes.txt", "hello", ErrNotPDF},
		{"too large", 1, "big.pdf", strings.Repeat("x", 17), ErrFileTooLarge},
		{"unknown patient", 2, "a.pdf", "%PDF-1", ErrPatientNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := upload(svc, tt.id, tt.filename, tt.body); !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpload_UnderstatedSize(t *testing.T) {
	svc, db := newTestService(t, 8)
	_, err := svc.Upload(context.Background(), UploadRequest{
		FingerprintID: 1,
		Filename:      "a.pdf",
		Size:          1,
		Body:          strings.NewReader(strings.Repeat("x", 64)),
	})
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Upload() error = %v, want ErrFileTooLarge", err)
	}
	var n int64
	db.Model(&repo.DoctorDocument{}).Count(&n)
	if n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
}

func TestUploadListOpen(t *testing.T) {
	svc, _ := newTestService(t, 0)
	ctx := context.Background()

	first, err := upload(svc, 1, "../../etc/Lab Result.PDF", "%PDF-1.4 first")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasSuffix(first.Filename, "_Lab_Result.PDF") || strings.Contains(first.Filename, "/") {
		t.Errorf("Filename = %q", first.Filename)
	}
	second, err := upload(svc, 1, "b.pdf", "%PDF-1.4 second")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	docs, err := svc.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != second.ID {
		t.Errorf("List() = %+v, want newest first", docs)
	}

	dl, err := svc.Open(ctx, first.ID)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer dl.Body.Close()
	got, _ := io.ReadAll(dl.Body)
	if !bytes.Equal(got, []byte("%PDF-1.4 first")) {
		t.Errorf("Open() body = %q", got)
	}

	if _, err := svc.Open(ctx, 999); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("Open(999) error = %v, want ErrDocumentNotFound", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"  my scan (1).pdf ":  "my_scan_1_.pdf",
		`C:\Users\x\file.pdf`: "file.pdf",
		"../../secret.pdf":    "secret.pdf",
		"":                    "",
		"..":                  "",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalStore_RejectsEscape(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir())
	if err := s.Put(context.Background(), "../x.pdf", strings.NewReader("x"), 1); err == nil {
		t.Error("Put() accepted a key outside the root")
	}
	if _, err := s.Get(context.Background(), "missing.pdf"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Get() error = %v, want ErrBlobNotFound", err)
	}
}
