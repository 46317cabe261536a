package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/triage_backend/internal/repo"
)

// DefaultMaxSize applies when no limit is configured.
const DefaultMaxSize = 16 << 20

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type UploadRequest struct {
	FingerprintID int64
	Filename      string
	Size          int64
	Body          io.Reader
}

// Download is an open document. The caller closes Body.
type Download struct {
	Document repo.DoctorDocument
	Body     io.ReadCloser
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*repo.DoctorDocument, error)
	List(ctx context.Context, fingerprintID int64) ([]repo.DoctorDocument, error)
	Open(ctx context.Context, documentID int64) (*Download, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type documentService struct {
	db      *repo.Client
	store   Store
	maxSize int64
	now     func() time.Time
}

func New(db *repo.Client, store Store, maxSize int64) Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &documentService{
		db:      db,
		store:   store,
		maxSize: maxSize,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Upload stores a PDF for the patient. The blob is removed again if the
// metadata row cannot be written.
func (s *documentService) Upload(ctx context.Context, req UploadRequest) (*repo.DoctorDocument, error) {
	name := SanitizeFilename(req.Filename)
	if name == "" {
		return nil, ErrNoFileSelected
	}
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, ErrNotPDF
	}
	if req.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	exists, err := s.db.PatientExists(ctx, req.FingerprintID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrPatientNotFound
	}

	now := s.now()
	key := fmt.Sprintf("documents/%d/%s.pdf", req.FingerprintID, uuid.NewString())

	// one byte over the limit is enough to reject a lying size header
	body := &countingReader{r: io.LimitReader(req.Body, s.maxSize+1)}
	if err := s.store.Put(ctx, key, body, req.Size); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}
	if body.n > s.maxSize {
		s.discard(ctx, key)
		return nil, ErrFileTooLarge
	}

	doc := &repo.DoctorDocument{
		FingerprintID: req.FingerprintID,
		Filename:      now.Format("20060102_150405") + "_" + name,
		StorageKey:    key,
		Size:          body.n,
		UploadedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		s.discard(ctx, key)
		return nil, fmt.Errorf("record document: %w", err)
	}

	slog.Info("document uploaded", "fingerprint_id", req.FingerprintID, "document_id", doc.ID, "size", doc.Size)
	return doc, nil
}

func (s *documentService) List(ctx context.Context, fingerprintID int64) ([]repo.DoctorDocument, error) {
	var docs []repo.DoctorDocument
	err := s.db.WithContext(ctx).
		Where("fingerprint_id = ?", fingerprintID).
		Order("uploaded_at DESC").Order("id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Open(ctx context.Context, documentID int64) (*Download, error) {
	var doc repo.DoctorDocument
	if err := s.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	body, err := s.store.Get(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("open document: %w", err)
	}
	return &Download{Document: doc, Body: body}, nil
}

func (s *documentService) discard(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		slog.Warn("orphaned document blob", "key", key, "error", err)
	}
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	name = unsafeName.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
