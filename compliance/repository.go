package compliance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals that the certificate record does not exist.
	ErrNotFound = errors.New("compliance: document not found")
	// ErrDuplicateSource signals that a record for the source file id already
	// exists. Import commits treat this as the expected duplicate-skip
	// outcome, never as a failure.
	ErrDuplicateSource = errors.New("compliance: source file already imported")
)

// Filters narrows List results.
type Filters struct {
	EmployeeID string
	Type       DocumentType
}

// Repository defines the data access needed by the certificate services.
type Repository interface {
	Create(ctx context.Context, params RecordParams) (Document, error)
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, filters Filters) ([]Document, error)
	Renew(ctx context.Context, id string, expiration time.Time) (Document, error)
	Delete(ctx context.Context, id string) error
	ImportedKeys(ctx context.Context) (map[string]struct{}, error)
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed certificate repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const documentColumns = `id, employee_id::text, external_name, doc_type::text, issue_date, expiration_date,
	policy_number, insurer_name, source_file_id, notes, created_at, updated_at`

// Create inserts a new certificate record. The partial unique index on
// source_file_id makes this the atomic verify-then-insert step: the loser of
// a concurrent commit for the same source file observes ErrDuplicateSource.
func (r *PGRepository) Create(ctx context.Context, params RecordParams) (Document, error) {
	insertSQL := fmt.Sprintf(`
		INSERT INTO compliance_documents
			(employee_id, external_name, doc_type, issue_date, expiration_date,
			 policy_number, insurer_name, source_file_id, notes)
		VALUES ($1, $2, $3::coi_document_type, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, documentColumns)

	doc, err := scanDocument(r.pool.QueryRow(ctx, insertSQL,
		nullable(params.EmployeeID),
		nullable(params.ExternalName),
		params.Type,
		params.IssueDate,
		params.ExpirationDate,
		nullable(params.PolicyNumber),
		nullable(params.InsurerName),
		nullable(params.SourceFileID),
		nullable(params.Notes),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Document{}, ErrDuplicateSource
		}
		return Document{}, fmt.Errorf("compliance: create document: %w", err)
	}
	return doc, nil
}

// GetByID retrieves a certificate record by ID.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Document, error) {
	selectSQL := fmt.Sprintf(`SELECT %s FROM compliance_documents WHERE id = $1`, documentColumns)

	doc, err := scanDocument(r.pool.QueryRow(ctx, selectSQL, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("compliance: get document: %w", err)
	}
	return doc, nil
}

// List returns certificate records, soonest expiration first.
func (r *PGRepository) List(ctx context.Context, filters Filters) ([]Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM compliance_documents WHERE 1=1`, documentColumns)
	args := []any{}

	if filters.EmployeeID != "" {
		args = append(args, filters.EmployeeID)
		query += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filters.Type != "" {
		args = append(args, filters.Type)
		query += fmt.Sprintf(" AND doc_type = $%d::coi_document_type", len(args))
	}
	query += " ORDER BY expiration_date, created_at"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("compliance: list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0, 16)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("compliance: scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("compliance: iterate documents: %w", err)
	}
	return docs, nil
}

// Renew replaces the expiration date on an existing record.
func (r *PGRepository) Renew(ctx context.Context, id string, expiration time.Time) (Document, error) {
	updateSQL := fmt.Sprintf(`
		UPDATE compliance_documents
		SET expiration_date = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, documentColumns)

	doc, err := scanDocument(r.pool.QueryRow(ctx, updateSQL, id, expiration))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("compliance: renew document: %w", err)
	}
	return doc, nil
}

// Delete removes a certificate record.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM compliance_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("compliance: delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportedKeys returns the set of source file ids that already have records.
func (r *PGRepository) ImportedKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT source_file_id FROM compliance_documents WHERE source_file_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("compliance: list imported keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{}, 32)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("compliance: scan imported key: %w", err)
		}
		keys[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("compliance: iterate imported keys: %w", err)
	}
	return keys, nil
}

func scanDocument(row pgx.Row) (Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.EmployeeID,
		&doc.ExternalName,
		&doc.Type,
		&doc.IssueDate,
		&doc.ExpirationDate,
		&doc.PolicyNumber,
		&doc.InsurerName,
		&doc.SourceFileID,
		&doc.Notes,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
