package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"concil/internal/companies"
	"concil/internal/config"
	"concil/internal/domain"
	"concil/internal/emailtext"
	"concil/internal/engine"
	"concil/internal/export"
	"concil/internal/port"
	"concil/internal/recognizer"
	s3storage "concil/internal/storage/s3"
)

// FileInput is one extracted attachment of an incoming email.
type FileInput struct {
	Filename    string
	Text        string
	Content     []byte
	ContentType string
}

// ReconcileInput is everything one email contributes to a batch.
type ReconcileInput struct {
	Email *domain.EmailContext
	Files []FileInput
}

// BatchService reconciles incoming batches and serves persisted ones.
type BatchService interface {
	Reconcile(ctx context.Context, input ReconcileInput) (*domain.Batch, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	List(ctx context.Context, offset, limit int) ([]domain.BatchSummary, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ExportCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	GetFileURL(ctx context.Context, id uuid.UUID, filename string) (string, error)
}

type batchService struct {
	repo        port.BatchRepository
	storage     port.ObjectStorage
	notifier    port.ReviewNotifier
	registry    *companies.Registry
	engine      *engine.Engine
	recognizers []recognizer.Recognizer
	s3cfg       *config.S3Config
}

// NewBatchService creates a new BatchService.
func NewBatchService(
	repo port.BatchRepository,
	storage port.ObjectStorage,
	notifier port.ReviewNotifier,
	registry *companies.Registry,
	s3cfg *config.S3Config,
) BatchService {
	return &batchService{
		repo:        repo,
		storage:     storage,
		notifier:    notifier,
		registry:    registry,
		engine:      engine.New(),
		recognizers: recognizer.DefaultSet(),
		s3cfg:       s3cfg,
	}
}

// Reconcile builds a batch from the email's attachments, resolves it, persists
// it, archives the source files, and notifies the review inbox when the
// outcome needs human eyes. Archive and notification failures are logged, not
// fatal; the persisted judgement is the source of truth.
func (s *batchService) Reconcile(ctx context.Context, input ReconcileInput) (*domain.Batch, error) {
	batch := &domain.Batch{
		ID:        uuid.New(),
		Email:     input.Email,
		CreatedAt: time.Now().UTC(),
	}

	for _, f := range input.Files {
		doc := recognizer.Recognize(s.recognizers, f.Filename, f.Text)
		s.stampCompany(doc, f.Text)
		batch.Documents = append(batch.Documents, doc)
	}

	// An email that carries no attachments is still a batch: the body itself
	// may announce a note waiting on a fiscal portal.
	if len(batch.Documents) == 0 && input.Email != nil {
		if doc := noticeFromEmail(input.Email); doc != nil {
			s.stampCompany(doc, input.Email.BodyText)
			batch.Documents = append(batch.Documents, doc)
		}
	}

	if _, err := s.engine.Resolve(batch); err != nil {
		return nil, fmt.Errorf("batchService.Reconcile: %w", err)
	}

	if err := s.repo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("batchService.Reconcile: %w", err)
	}

	s.archive(ctx, batch, input.Files)

	if batch.Correlation != nil && batch.Correlation.Status.NeedsReview() {
		if err := s.notifier.NotifyReview(ctx, batch); err != nil {
			log.Printf("batch %s: review notification failed: %v", batch.ID, err)
		}
	}

	return batch, nil
}

func (s *batchService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("batchService.GetByID: %w", err)
	}
	return batch, nil
}

func (s *batchService) List(ctx context.Context, offset, limit int) ([]domain.BatchSummary, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	summaries, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("batchService.List: %w", err)
	}
	return summaries, total, nil
}

func (s *batchService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("batchService.Delete: %w", err)
	}
	return nil
}

func (s *batchService) ExportCSV(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("batchService.ExportCSV: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, "", fmt.Errorf("batchService.ExportCSV: %w", err)
	}
	if err := w.WriteBatch(batch); err != nil {
		return nil, "", fmt.Errorf("batchService.ExportCSV: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("batchService.ExportCSV: %w", err)
	}

	return buf.Bytes(), export.BuildFilename(exportName(batch), "csv"), nil
}

func (s *batchService) ExportXLSX(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	batch, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("batchService.ExportXLSX: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, []*domain.Batch{batch}); err != nil {
		return nil, "", fmt.Errorf("batchService.ExportXLSX: %w", err)
	}

	return buf.Bytes(), export.BuildFilename(exportName(batch), "xlsx"), nil
}

func (s *batchService) GetFileURL(ctx context.Context, id uuid.UUID, filename string) (string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", fmt.Errorf("batchService.GetFileURL: %w", err)
	}
	url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, s3storage.BatchKey(id, filename), s.s3cfg.PresignExpiry)
	if err != nil {
		return "", fmt.Errorf("batchService.GetFileURL: %w", err)
	}
	return url, nil
}

func (s *batchService) stampCompany(doc *domain.Document, text string) {
	if s.registry == nil || doc.Company != "" {
		return
	}
	if c := s.registry.FindInText(text); c != nil {
		doc.Company = c.Name
	}
}

func (s *batchService) archive(ctx context.Context, batch *domain.Batch, files []FileInput) {
	if s.storage == nil {
		return
	}
	for _, f := range files {
		if len(f.Content) == 0 {
			continue
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         s3storage.BatchKey(batch.ID, f.Filename),
			Body:        bytes.NewReader(f.Content),
			ContentType: contentType,
			Size:        int64(len(f.Content)),
		})
		if err != nil {
			log.Printf("batch %s: archiving %s failed: %v", batch.ID, f.Filename, err)
		}
	}

	data, name, err := s.exportForArchive(batch)
	if err != nil {
		log.Printf("batch %s: building archive report failed: %v", batch.ID, err)
		return
	}
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         s3storage.BatchKey(batch.ID, name),
		Body:        bytes.NewReader(data),
		ContentType: "text/csv; charset=utf-8",
		Size:        int64(len(data)),
	})
	if err != nil {
		log.Printf("batch %s: archiving report failed: %v", batch.ID, err)
	}
}

func (s *batchService) exportForArchive(batch *domain.Batch) ([]byte, string, error) {
	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, "", err
	}
	if err := w.WriteBatch(batch); err != nil {
		return nil, "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), export.BuildFilename(exportName(batch), "csv"), nil
}

func exportName(batch *domain.Batch) string {
	id := batch.ID.String()
	if len(id) > 8 {
		id = id[:8]
	}
	return "lote_" + id
}

// noticeFromEmail builds an EMAIL_NOTICE record from an attachment-less email.
// Returns nil when the body carries nothing to act on.
func noticeFromEmail(email *domain.EmailContext) *domain.Document {
	body := emailtext.StripHTML(email.BodyText)
	if body == "" && email.Subject == "" {
		return nil
	}

	now := time.Now()
	ext := emailtext.Extract(email.Subject, body, now)
	if ext.Link == "" && ext.NoteNumber == "" && ext.TotalAmount == 0 {
		return nil
	}

	doc := &domain.Document{
		SourceFile:    "email-body",
		Kind:          domain.KindEmailNotice,
		Source:        domain.SourceRendered,
		SupplierName:  ext.SupplierName,
		SupplierTaxID: ext.TaxID,
		DueDate:       ext.DueDate,
		TotalAmount:   ext.TotalAmount,
		Notice: &domain.NoticeFields{
			Link:             ext.Link,
			VerificationCode: ext.VerificationCode,
		},
	}
	if doc.SupplierName == "" {
		doc.SupplierName = email.SenderName
	}
	return doc
}
