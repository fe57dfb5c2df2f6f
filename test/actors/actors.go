package actors

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"coiflow/compliance"
)

// Committer races to claim source files from a shared pool of ids. Losing a
// claim surfaces as ErrDuplicateSource, which is the expected outcome under
// contention, never an error.
func Committer(ctx context.Context, pool *pgxpool.Pool, employeeID string, sourceIDs []string, stop <-chan struct{}) error {
	repo := compliance.NewRepository(pool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		sourceID := sourceIDs[rand.Intn(len(sourceIDs))]
		_, err := repo.Create(ctx, compliance.RecordParams{
			EmployeeID:     employeeID,
			Type:           compliance.TypeWorkersComp,
			IssueDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			ExpirationDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			PolicyNumber:   fmt.Sprintf("WC-%d", rand.Int63()),
			SourceFileID:   sourceID,
		})
		if err != nil && !errors.Is(err, compliance.ErrDuplicateSource) {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("committer create: %w", err)
		}
		time.Sleep(time.Duration(10+rand.Intn(20)) * time.Millisecond)
	}
}

// Renewer pushes expiration dates forward on whatever records exist.
func Renewer(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	repo := compliance.NewRepository(pool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		docs, err := repo.List(ctx, compliance.Filters{})
		if err == nil && len(docs) > 0 {
			doc := docs[rand.Intn(len(docs))]
			expiration := doc.ExpirationDate.AddDate(0, 0, 1+rand.Intn(30))
			_, err := repo.Renew(ctx, doc.ID, expiration)
			if err != nil && !errors.Is(err, compliance.ErrNotFound) {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return fmt.Errorf("renewer update: %w", err)
			}
		}
		time.Sleep(time.Duration(20+rand.Intn(40)) * time.Millisecond)
	}
}

// Reader exercises the classification reads while writers run.
func Reader(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	svc := compliance.NewService(compliance.NewRepository(pool))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := svc.List(ctx, compliance.Filters{}); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
		}
		_, _ = svc.AlertsDue(ctx)
		time.Sleep(time.Duration(30+rand.Intn(50)) * time.Millisecond)
	}
}

// KeyScanner reloads the imported-key set the way a preview does.
func KeyScanner(ctx context.Context, pool *pgxpool.Pool, stop <-chan struct{}) error {
	repo := compliance.NewRepository(pool)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		default:
		}
		if _, err := repo.ImportedKeys(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
		}
		time.Sleep(time.Duration(50+rand.Intn(50)) * time.Millisecond)
	}
}
