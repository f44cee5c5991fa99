package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/domain/document"
	"github.com/outreachmedicalstaffing/staffing-app-sub003/internal/pkg/database"
)

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

const documentColumns = `id, user_id, name, category, file_path, status, expiry_date,
	   reviewed_by, reviewed_at, created_at, updated_at`

func scanDocument(row pgx.Row) (document.Document, error) {
	var d document.Document
	err := row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.Category, &d.FilePath, &d.Status, &d.ExpiryDate,
		&d.ReviewedBy, &d.ReviewedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, d document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO documents (user_id, name, category, file_path, status, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, d.UserID, d.Name, d.Category, d.FilePath, d.Status, d.ExpiryDate).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to create document: %w", err)
	}

	return d, nil
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id string) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDocument(q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("failed to get document by ID: %w", err)
	}

	return d, nil
}

// ListByUser implements document.DocumentRepository.
func (r *documentRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents by user: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// List implements document.DocumentRepository.
func (r *documentRepositoryImpl) List(ctx context.Context) ([]document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.user_id, d.name, d.category, d.file_path, d.status, d.expiry_date,
			   d.reviewed_by, d.reviewed_at, d.created_at, d.updated_at,
			   u.full_name AS user_name
		FROM documents d
		LEFT JOIN users u ON u.id = d.user_id
		ORDER BY d.created_at ASC, d.id ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var documents []document.Document
	for rows.Next() {
		var d document.Document
		err := rows.Scan(
			&d.ID, &d.UserID, &d.Name, &d.Category, &d.FilePath, &d.Status, &d.ExpiryDate,
			&d.ReviewedBy, &d.ReviewedAt, &d.CreatedAt, &d.UpdatedAt, &d.UserName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}

	return documents, rows.Err()
}

func collectDocuments(rows pgx.Rows) ([]document.Document, error) {
	var documents []document.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// Review implements document.DocumentRepository.
func (r *documentRepositoryImpl) Review(ctx context.Context, id string, status document.Status, reviewedBy string) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE documents
		SET status = $1, reviewed_by = $2, reviewed_at = NOW(), updated_at = NOW()
		WHERE id = $3
		RETURNING ` + documentColumns

	d, err := scanDocument(q.QueryRow(ctx, query, status, reviewedBy, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrDocumentNotFound
		}
		return document.Document{}, fmt.Errorf("failed to review document: %w", err)
	}

	return d, nil
}
