package roster

import "context"

// Provider abstracts the directory service supplying the roster. Callers with
// an external directory inject their own implementation; the HR product uses
// the Postgres-backed repository in this package.
type Provider interface {
	List(ctx context.Context) ([]Person, error)
}

// Repository extends Provider with single-person lookup.
type Repository interface {
	Provider
	GetByID(ctx context.Context, id string) (Person, error)
}

// Service exposes business-level roster operations.
type Service struct {
	repo Repository
}

// NewService builds a Service over the given roster repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the full roster.
func (s *Service) List(ctx context.Context) ([]Person, error) {
	return s.repo.List(ctx)
}

// Get returns a single employee by id.
func (s *Service) Get(ctx context.Context, id string) (Person, error) {
	return s.repo.GetByID(ctx, id)
}
