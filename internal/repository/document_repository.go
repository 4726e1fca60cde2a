package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"societydocs/api/internal/models"
)

var ErrDocumentNotFound = errors.New("document not found")

const documentColumns = `id, user_id, title, document_type, description, shareholding,
	file_name, locator, size_bytes, mime_type, status, is_superseded, superseded_at, created_at`

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Create(ctx context.Context, doc models.Document) error {
	const query = `
		INSERT INTO documents (
			id, user_id, title, document_type, description, shareholding,
			file_name, locator, size_bytes, mime_type, status, is_superseded, superseded_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.DocumentType,
		doc.Description,
		doc.Shareholding,
		doc.FileName,
		doc.Locator,
		doc.SizeBytes,
		doc.MimeType,
		doc.Status,
		doc.IsSuperseded,
		doc.SupersededAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (models.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents WHERE id = $1"

	return r.scanDocument(r.pool.QueryRow(ctx, query, id))
}

// ListByOwner returns the owner's documents newest first. The filter's
// zero values match everything.
func (r *DocumentRepository) ListByOwner(ctx context.Context, ownerID string, filter models.DocumentFilter) ([]models.Document, error) {
	builder := sq.Select(documentColumns).
		From("documents").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"document_type": filter.Type})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectDocuments(rows)
}

// List returns documents across all owners, newest first. Admin use only.
func (r *DocumentRepository) List(ctx context.Context, limit, offset int) ([]models.Document, error) {
	query := "SELECT " + documentColumns + " FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2"

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectDocuments(rows)
}

func (r *DocumentRepository) MarkSuperseded(ctx context.Context, id string, locator string, sizeBytes int64, at time.Time) error {
	const query = `
		UPDATE documents
		SET status = $2,
		    is_superseded = TRUE,
		    superseded_at = $3,
		    locator = $4,
		    size_bytes = $5
		WHERE id = $1
	`

	cmd, err := r.pool.Exec(ctx, query, id, models.DocumentStatusSuperseded, at, locator, sizeBytes)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) scanDocument(row pgx.Row) (models.Document, error) {
	var doc models.Document
	if err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.DocumentType,
		&doc.Description,
		&doc.Shareholding,
		&doc.FileName,
		&doc.Locator,
		&doc.SizeBytes,
		&doc.MimeType,
		&doc.Status,
		&doc.IsSuperseded,
		&doc.SupersededAt,
		&doc.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Document{}, ErrDocumentNotFound
		}
		return models.Document{}, err
	}
	return doc, nil
}

func (r *DocumentRepository) collectDocuments(rows pgx.Rows) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Title,
			&doc.DocumentType,
			&doc.Description,
			&doc.Shareholding,
			&doc.FileName,
			&doc.Locator,
			&doc.SizeBytes,
			&doc.MimeType,
			&doc.Status,
			&doc.IsSuperseded,
			&doc.SupersededAt,
			&doc.CreatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
