package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"coiflow/compliance"
	"coiflow/drive"
	"coiflow/extract"
	"coiflow/identity"
	"coiflow/roster"
)

var (
	// ErrMissingListing signals a preview request without a file listing.
	ErrMissingListing = errors.New("importer: missing file listing")
	// ErrMissingDecisions signals a commit request without a decision list.
	ErrMissingDecisions = errors.New("importer: missing decisions")
)

// Store is the persistence surface the reconciler needs. The unique key on
// the source file id inside Create is what makes commits idempotent.
type Store interface {
	Create(ctx context.Context, params compliance.RecordParams) (compliance.Document, error)
	ImportedKeys(ctx context.Context) (map[string]struct{}, error)
}

const defaultConcurrency = 4

// Service reconciles a scanned folder of external files into an idempotent
// import batch.
type Service struct {
	extractor   extract.Extractor
	files       drive.Lister
	content     drive.ContentReader
	store       Store
	people      roster.Provider
	concurrency int
	idGen       func() string
}

// NewService wires the reconciler to its collaborators.
func NewService(extractor extract.Extractor, files drive.Lister, content drive.ContentReader, store Store, people roster.Provider) *Service {
	return &Service{
		extractor:   extractor,
		files:       files,
		content:     content,
		store:       store,
		people:      people,
		concurrency: defaultConcurrency,
		idGen:       uuid.NewString,
	}
}

// WithConcurrency bounds the number of in-flight extractor calls.
func (s *Service) WithConcurrency(n int) *Service {
	if n > 0 {
		s.concurrency = n
	}
	return s
}

// WithIDGenerator overrides batch id generation, mainly for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	if gen != nil {
		s.idGen = gen
	}
	return s
}

// PreviewFolder lists the watched folder, loads the roster and the imported
// key set, and previews the whole batch. Failures fetching those three inputs
// are hard failures; everything per-file is isolated.
func (s *Service) PreviewFolder(ctx context.Context) (Preview, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("importer: list folder: %w", err)
	}
	people, err := s.people.List(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("importer: load roster: %w", err)
	}
	imported, err := s.store.ImportedKeys(ctx)
	if err != nil {
		return Preview{}, fmt.Errorf("importer: load imported keys: %w", err)
	}
	return s.Preview(ctx, files, people, imported)
}

// Preview extracts, resolves, and dedup-checks every file in the listing.
// Candidates come back in listing order; a per-file extraction failure is
// recorded in Errors and never aborts the batch.
func (s *Service) Preview(ctx context.Context, files []drive.File, people []roster.Person, importedKeys map[string]struct{}) (Preview, error) {
	if files == nil {
		return Preview{}, ErrMissingListing
	}

	candidates := make([]*Candidate, len(files))
	failures := make([]*ExtractionError, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			fields, err := s.extractFile(gctx, f)
			if err != nil {
				failures[i] = &ExtractionError{SourceFileID: f.SourceFileID, FileName: f.FileName, Err: err}
				return nil
			}
			_, already := importedKeys[f.SourceFileID]
			candidates[i] = &Candidate{
				SourceFileID:    f.SourceFileID,
				FileName:        f.FileName,
				WebLink:         f.WebLink,
				Parsed:          fields,
				Match:           identity.Resolve(fields.BestName(), people),
				AlreadyImported: already,
			}
			return nil
		})
	}
	// Workers never return errors; per-file failures land in failures.
	_ = g.Wait()

	preview := Preview{
		Candidates: make([]Candidate, 0, len(files)),
		Errors:     make([]ExtractionError, 0),
	}
	for i := range files {
		if candidates[i] != nil {
			preview.Candidates = append(preview.Candidates, *candidates[i])
		}
		if failures[i] != nil {
			preview.Errors = append(preview.Errors, *failures[i])
		}
	}
	return preview, nil
}

func (s *Service) extractFile(ctx context.Context, f drive.File) (extract.Fields, error) {
	data, err := s.content.Read(ctx, f.SourceFileID)
	if err != nil {
		return extract.Fields{}, fmt.Errorf("importer: read %s: %w", f.FileName, err)
	}
	fields, err := s.extractor.Extract(ctx, f.FileName, data)
	if err != nil {
		return extract.Fields{}, fmt.Errorf("importer: extract %s: %w", f.FileName, err)
	}
	return fields, nil
}

// Commit persists the selected decisions. Each decision is validated and
// written independently; the duplicate check happens at commit time through
// the store's unique key, so re-running a commit (or losing a concurrent
// race) yields skips, never duplicates or errors.
func (s *Service) Commit(ctx context.Context, decisions []Decision) (CommitResult, error) {
	if decisions == nil {
		return CommitResult{}, ErrMissingDecisions
	}

	result := CommitResult{
		BatchID:  s.idGen(),
		Outcomes: make([]DecisionOutcome, 0, len(decisions)),
	}
	for _, d := range decisions {
		if !d.Selected {
			continue
		}

		params := d.recordParams()
		if err := params.Validate(); err != nil {
			result.Skipped++
			result.Outcomes = append(result.Outcomes, DecisionOutcome{
				SourceFileID: d.SourceFileID,
				Outcome:      OutcomeSkippedInvalid,
				Err:          err,
			})
			continue
		}

		doc, err := s.store.Create(ctx, params)
		switch {
		case errors.Is(err, compliance.ErrDuplicateSource):
			result.Skipped++
			result.Outcomes = append(result.Outcomes, DecisionOutcome{
				SourceFileID: d.SourceFileID,
				Outcome:      OutcomeSkippedDuplicate,
			})
		case err != nil:
			result.Failed++
			result.Outcomes = append(result.Outcomes, DecisionOutcome{
				SourceFileID: d.SourceFileID,
				Outcome:      OutcomeFailed,
				Err:          err,
			})
		default:
			result.Imported++
			result.Outcomes = append(result.Outcomes, DecisionOutcome{
				SourceFileID: d.SourceFileID,
				Outcome:      OutcomeImported,
				DocumentID:   doc.ID,
			})
		}
	}
	return result, nil
}
