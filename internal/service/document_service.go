package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"societydocs/api/internal/config"
	"societydocs/api/internal/ids"
	"societydocs/api/internal/models"
	"societydocs/api/internal/pdf"
	"societydocs/api/internal/repository"
	"societydocs/api/internal/storage"
)

var (
	ErrInvalidDocumentType = errors.New("unknown document type")
	ErrNotPDF              = errors.New("file is not a pdf")
	ErrAlreadySuperseded   = errors.New("document already superseded")
)

var pdfMagic = []byte("%PDF-")

// GCStream receives locators of blobs whose deletion failed; the jobs
// scheduler retries them.
const GCStream = "blobs:gc"

type DocumentStore interface {
	Create(ctx context.Context, doc models.Document) error
	GetByID(ctx context.Context, id string) (models.Document, error)
	ListByOwner(ctx context.Context, ownerID string, filter models.DocumentFilter) ([]models.Document, error)
	List(ctx context.Context, limit, offset int) ([]models.Document, error)
	MarkSuperseded(ctx context.Context, id string, locator string, sizeBytes int64, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type DocumentService struct {
	docs    DocumentStore
	blobs   storage.BlobStore
	stamper pdf.Stamper
	queue   *redis.Client
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewDocumentService(
	docs DocumentStore,
	blobs storage.BlobStore,
	stamper pdf.Stamper,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *DocumentService {
	return &DocumentService{
		docs:    docs,
		blobs:   blobs,
		stamper: stamper,
		queue:   queue,
		cfg:     cfg,
		log:     log,
	}
}

type UploadInput struct {
	OwnerID      string
	Title        string
	DocumentType string
	Description  string
	Shareholding string
	FileName     string
	Data         []byte
}

// Upload writes the blob first, then the metadata row. A failed
// metadata write triggers a compensating blob delete so upload never
// leaves an orphan behind on its own failure path.
func (s *DocumentService) Upload(ctx context.Context, input UploadInput) (models.Document, error) {
	if input.OwnerID == "" || input.Title == "" || input.DocumentType == "" ||
		input.FileName == "" || len(input.Data) == 0 {
		return models.Document{}, ErrMissingFields
	}

	docType := models.DocumentType(input.DocumentType)
	if !docType.Valid() {
		return models.Document{}, ErrInvalidDocumentType
	}

	if !bytes.HasPrefix(input.Data, pdfMagic) {
		return models.Document{}, ErrNotPDF
	}

	locator, err := s.blobs.Put(ctx, input.OwnerID, input.FileName,
		bytes.NewReader(input.Data), int64(len(input.Data)), "application/pdf")
	if err != nil {
		return models.Document{}, fmt.Errorf("store blob: %w", err)
	}

	doc := models.Document{
		ID:           ids.New(),
		UserID:       input.OwnerID,
		Title:        input.Title,
		DocumentType: docType,
		Description:  optional(input.Description),
		Shareholding: optional(input.Shareholding),
		FileName:     input.FileName,
		Locator:      locator,
		SizeBytes:    int64(len(input.Data)),
		MimeType:     "application/pdf",
		Status:       models.DocumentStatusActive,
		IsSuperseded: false,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		if delErr := s.blobs.Delete(ctx, locator); delErr != nil {
			s.log.Error().Err(delErr).Str("locator", locator).Msg("compensating blob delete failed")
			s.enqueueOrphan(ctx, locator)
		}
		return models.Document{}, fmt.Errorf("save metadata: %w", err)
	}

	return doc, nil
}

func (s *DocumentService) List(ctx context.Context, ownerID string, filter models.DocumentFilter) ([]models.Document, error) {
	return s.docs.ListByOwner(ctx, ownerID, filter)
}

// Get resolves a document for the given owner. A document belonging to
// someone else reads as not found rather than forbidden.
func (s *DocumentService) Get(ctx context.Context, ownerID, id string) (models.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return models.Document{}, err
	}
	if doc.UserID != ownerID {
		return models.Document{}, repository.ErrDocumentNotFound
	}
	return doc, nil
}

// Open returns the document plus a reader over its current bytes.
func (s *DocumentService) Open(ctx context.Context, ownerID, id string) (models.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return models.Document{}, nil, err
	}

	rc, err := s.blobs.Get(ctx, doc.Locator)
	if err != nil {
		return models.Document{}, nil, fmt.Errorf("read blob: %w", err)
	}
	return doc, rc, nil
}

// Delete removes the metadata row regardless of whether the backing
// blob could be deleted; a failed blob delete is logged and handed to
// the garbage collector.
func (s *DocumentService) Delete(ctx context.Context, ownerID, id string) error {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, doc.Locator); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn().Err(err).Str("document_id", doc.ID).Str("locator", doc.Locator).Msg("blob delete failed")
		s.enqueueOrphan(ctx, doc.Locator)
	}

	return s.docs.Delete(ctx, doc.ID)
}

// Supersede stamps the document and flips its lifecycle status. Only
// ACTIVE documents transition; stamping twice is rejected.
func (s *DocumentService) Supersede(ctx context.Context, ownerID, id string) (models.Document, error) {
	doc, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return models.Document{}, err
	}

	if doc.IsSuperseded || doc.Status == models.DocumentStatusSuperseded {
		return models.Document{}, ErrAlreadySuperseded
	}

	rc, err := s.blobs.Get(ctx, doc.Locator)
	if err != nil {
		return models.Document{}, fmt.Errorf("read blob: %w", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return models.Document{}, fmt.Errorf("read blob: %w", err)
	}

	now := time.Now().UTC()
	stamped, err := s.stamper.Stamp(data, now)
	if err != nil {
		return models.Document{}, fmt.Errorf("stamp pdf: %w", err)
	}

	stampedName := fmt.Sprintf("superseded-%d-%s", now.Unix(), doc.FileName)
	newLocator, err := s.blobs.Put(ctx, doc.UserID, stampedName,
		bytes.NewReader(stamped), int64(len(stamped)), "application/pdf")
	if err != nil {
		return models.Document{}, fmt.Errorf("store stamped blob: %w", err)
	}

	if err := s.docs.MarkSuperseded(ctx, doc.ID, newLocator, int64(len(stamped)), now); err != nil {
		if delErr := s.blobs.Delete(ctx, newLocator); delErr != nil {
			s.enqueueOrphan(ctx, newLocator)
		}
		return models.Document{}, err
	}

	oldLocator := doc.Locator
	if err := s.blobs.Delete(ctx, oldLocator); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.Warn().Err(err).Str("locator", oldLocator).Msg("old blob delete failed")
		s.enqueueOrphan(ctx, oldLocator)
	}

	doc.Locator = newLocator
	doc.SizeBytes = int64(len(stamped))
	doc.Status = models.DocumentStatusSuperseded
	doc.IsSuperseded = true
	doc.SupersededAt = &now
	return doc, nil
}

// AdminList pages through every owner's documents.
func (s *DocumentService) AdminList(ctx context.Context, limit, offset int) ([]models.Document, error) {
	return s.docs.List(ctx, limit, offset)
}

func (s *DocumentService) enqueueOrphan(ctx context.Context, locator string) {
	if s.queue == nil {
		return
	}
	_, err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: GCStream,
		Values: map[string]any{"locator": locator},
	}).Result()
	if err != nil {
		s.log.Error().Err(err).Str("locator", locator).Msg("enqueue orphan blob failed")
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
