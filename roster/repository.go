package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrPersonNotFound signals that the employee does not exist.
	ErrPersonNotFound = errors.New("roster: person not found")
)

// PGRepository implements Provider backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a PostgreSQL-backed roster repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns every active employee ordered by last name.
func (r *PGRepository) List(ctx context.Context) ([]Person, error) {
	const query = `
		SELECT id, first_name, last_name, email
		FROM employees
		WHERE active
		ORDER BY last_name, first_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("roster: list employees: %w", err)
	}
	defer rows.Close()

	people := make([]Person, 0, 32)
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
			return nil, fmt.Errorf("roster: scan employee: %w", err)
		}
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roster: iterate employees: %w", err)
	}
	return people, nil
}

// GetByID retrieves a single employee by ID.
func (r *PGRepository) GetByID(ctx context.Context, id string) (Person, error) {
	const query = `
		SELECT id, first_name, last_name, email
		FROM employees
		WHERE id = $1
	`

	var p Person
	if err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Person{}, ErrPersonNotFound
		}
		return Person{}, fmt.Errorf("roster: get employee: %w", err)
	}
	return p, nil
}
