package compliance

import (
	"context"
	"time"
)

// Service exposes certificate operations with derived status attached.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service over the given repository.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates and persists a new certificate record.
func (s *Service) Create(ctx context.Context, params RecordParams) (Document, error) {
	if err := params.Validate(); err != nil {
		return Document{}, err
	}
	return s.repo.Create(ctx, params)
}

// Get returns a single record with its classification at the current time.
func (s *Service) Get(ctx context.Context, id string) (DocumentStatus, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DocumentStatus{}, err
	}
	return Snapshot(doc, s.now()), nil
}

// List returns records with their classification at the current time. Status
// is recomputed on every call, never cached.
func (s *Service) List(ctx context.Context, filters Filters) ([]DocumentStatus, error) {
	docs, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]DocumentStatus, 0, len(docs))
	for _, doc := range docs {
		out = append(out, Snapshot(doc, now))
	}
	return out, nil
}

// AlertsDue returns the records whose cadence calls for a notification,
// most urgent first. List ordering (soonest expiration first) is preserved
// within each severity.
func (s *Service) AlertsDue(ctx context.Context) ([]DocumentStatus, error) {
	all, err := s.List(ctx, Filters{})
	if err != nil {
		return nil, err
	}
	due := make([]DocumentStatus, 0, len(all))
	for _, d := range all {
		if d.Cadence.Severity > CadenceNone.Severity {
			due = append(due, d)
		}
	}
	return due, nil
}

// Renew replaces the expiration date; the new status is derived on the next
// read like any other.
func (s *Service) Renew(ctx context.Context, id string, expiration time.Time) (DocumentStatus, error) {
	if expiration.IsZero() {
		return DocumentStatus{}, ErrMissingExpiration
	}
	doc, err := s.repo.Renew(ctx, id, expiration)
	if err != nil {
		return DocumentStatus{}, err
	}
	return Snapshot(doc, s.now()), nil
}

// Delete removes a certificate record.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
