package upload

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coiflow/compliance"
	"coiflow/extract"
	"coiflow/roster"
)

type stubExtractor struct {
	fields  extract.Fields
	err     error
	release chan struct{} // when set, Extract blocks until closed
	calls   int
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ []byte) (extract.Fields, error) {
	s.calls++
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return extract.Fields{}, s.err
	}
	return s.fields, nil
}

type stubProvider struct {
	people []roster.Person
}

func (s *stubProvider) List(_ context.Context) ([]roster.Person, error) {
	return s.people, nil
}

type stubStore struct {
	mu        sync.Mutex
	created   []compliance.RecordParams
	createErr error
}

func (s *stubStore) Create(_ context.Context, params compliance.RecordParams) (compliance.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return compliance.Document{}, s.createErr
	}
	s.created = append(s.created, params)
	return compliance.Document{ID: "doc-1", Type: params.Type}, nil
}

func wcFields(name string) extract.Fields {
	return extract.Fields{
		RawInsuredName: name,
		PolicyNumber:   "WC-1234",
		EffectiveDate:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpirationDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		InsurerName:    "Hartford",
		DocumentType:   "WORKERS_COMP",
		Confidence:     0.97,
	}
}

func smithRoster() []roster.Person {
	return []roster.Person{{ID: "e1", FirstName: "John", LastName: "Smith"}}
}

func TestWorkflow_AnalyzeMovesToReview(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	store := &stubStore{}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, store)

	if w.State() != StateEmpty {
		t.Fatalf("expected EMPTY, got %s", w.State())
	}

	draft, err := w.Analyze(context.Background(), "coi.pdf", []byte("pdf"))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if w.State() != StateReview {
		t.Fatalf("expected REVIEW after analyze, got %s", w.State())
	}
	if draft.Params.EmployeeID != "e1" || draft.Params.ExternalName != "" {
		t.Fatalf("confident match must pre-fill employee assignment: %+v", draft.Params)
	}
	if draft.Params.Type != compliance.TypeWorkersComp {
		t.Fatalf("expected parsed type in draft, got %s", draft.Params.Type)
	}
	if len(store.created) != 0 {
		t.Fatal("analyze must not persist anything")
	}
}

func TestWorkflow_PerfectMatchStillRequiresReview(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, &stubStore{})

	draft, err := w.Analyze(context.Background(), "coi.pdf", nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if draft.Match.Confidence != 100 {
		t.Fatalf("expected an exact match, got %d", draft.Match.Confidence)
	}
	// Even at full confidence the record is a draft, not a persisted row.
	if w.State() != StateReview {
		t.Fatalf("expected REVIEW, got %s", w.State())
	}
}

func TestWorkflow_SubGateMatchPreFillsExternalName(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("Acme Roofing LLC")}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, &stubStore{})

	draft, err := w.Analyze(context.Background(), "coi.pdf", nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if draft.Params.ExternalName != "Acme Roofing LLC" || draft.Params.EmployeeID != "" {
		t.Fatalf("sub-gate match must pre-fill external name: %+v", draft.Params)
	}
}

func TestWorkflow_AnalyzeFailureReturnsToEmpty(t *testing.T) {
	ext := &stubExtractor{err: errors.New("ocr timeout")}
	w := NewWorkflow(ext, &stubProvider{}, &stubStore{})

	if _, err := w.Analyze(context.Background(), "coi.pdf", nil); err == nil {
		t.Fatal("expected analyze to surface extractor failure")
	}
	if w.State() != StateEmpty {
		t.Fatalf("expected EMPTY after failure, got %s", w.State())
	}
	if _, err := w.Draft(); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestWorkflow_AnalyzeRejectedWhileReviewing(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, &stubStore{})

	if _, err := w.Analyze(context.Background(), "a.pdf", nil); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := w.Analyze(context.Background(), "b.pdf", nil); !errors.Is(err, ErrNotEmpty) {
		t.Fatalf("expected ErrNotEmpty, got %v", err)
	}
}

func TestWorkflow_CancelDuringAnalysisDiscardsResult(t *testing.T) {
	release := make(chan struct{})
	ext := &stubExtractor{fields: wcFields("John Smith"), release: release}
	store := &stubStore{}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, store)

	done := make(chan error, 1)
	go func() {
		_, err := w.Analyze(context.Background(), "coi.pdf", nil)
		done <- err
	}()

	waitForState(t, w, StateAnalyzing)
	w.Cancel()
	close(release)

	if err := <-done; !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected the late result to be discarded, got %v", err)
	}
	if w.State() != StateEmpty {
		t.Fatalf("expected EMPTY after cancel, got %s", w.State())
	}
	if len(store.created) != 0 {
		t.Fatal("cancel must leave nothing persisted")
	}
}

func TestWorkflow_EditReplacesParams(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, &stubStore{})

	draft, err := w.Analyze(context.Background(), "coi.pdf", nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// Switch from the matched employee to an external party.
	edited := draft.Params
	edited.EmployeeID = ""
	edited.ExternalName = "Smith Contracting"
	if err := w.Edit(edited); err != nil {
		t.Fatalf("edit: %v", err)
	}

	got, err := w.Draft()
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if got.Params.ExternalName != "Smith Contracting" || got.Params.EmployeeID != "" {
		t.Fatalf("edit did not stick: %+v", got.Params)
	}
}

func TestWorkflow_EditRequiresReview(t *testing.T) {
	w := NewWorkflow(&stubExtractor{}, &stubProvider{}, &stubStore{})
	if err := w.Edit(compliance.RecordParams{}); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestWorkflow_ConfirmPersistsOnceAndResets(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	store := &stubStore{}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, store)

	if _, err := w.Analyze(context.Background(), "coi.pdf", nil); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	doc, err := w.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if doc.ID == "" {
		t.Fatal("expected a persisted document")
	}
	if len(store.created) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(store.created))
	}
	if w.State() != StateEmpty {
		t.Fatalf("expected EMPTY after confirm, got %s", w.State())
	}

	if _, err := w.Confirm(context.Background()); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("re-confirm must fail with ErrNoDraft, got %v", err)
	}
	if len(store.created) != 1 {
		t.Fatalf("re-confirm must not persist again, got %d records", len(store.created))
	}
}

func TestWorkflow_ConfirmRejectsInvalidDraftAndStaysInReview(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	store := &stubStore{}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, store)

	draft, err := w.Analyze(context.Background(), "coi.pdf", nil)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	broken := draft.Params
	broken.EmployeeID = ""
	broken.ExternalName = ""
	if err := w.Edit(broken); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if _, err := w.Confirm(context.Background()); !errors.Is(err, compliance.ErrAssignmentMissing) {
		t.Fatalf("expected ErrAssignmentMissing, got %v", err)
	}
	if w.State() != StateReview {
		t.Fatalf("failed confirm must stay in REVIEW, got %s", w.State())
	}
	if len(store.created) != 0 {
		t.Fatal("rejected confirm must not persist")
	}
}

func TestWorkflow_ConfirmPersistenceFailureStaysInReview(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	store := &stubStore{createErr: errors.New("connection reset")}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, store)

	if _, err := w.Analyze(context.Background(), "coi.pdf", nil); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := w.Confirm(context.Background()); err == nil {
		t.Fatal("expected persistence failure to surface")
	}
	if w.State() != StateReview {
		t.Fatalf("expected REVIEW for retry, got %s", w.State())
	}

	// Retry succeeds after the store recovers.
	store.createErr = nil
	if _, err := w.Confirm(context.Background()); err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
	if w.State() != StateEmpty {
		t.Fatalf("expected EMPTY after successful retry, got %s", w.State())
	}
}

func TestWorkflow_CancelFromReview(t *testing.T) {
	ext := &stubExtractor{fields: wcFields("John Smith")}
	store := &stubStore{}
	w := NewWorkflow(ext, &stubProvider{people: smithRoster()}, store)

	if _, err := w.Analyze(context.Background(), "coi.pdf", nil); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	w.Cancel()
	if w.State() != StateEmpty {
		t.Fatalf("expected EMPTY after cancel, got %s", w.State())
	}
	if len(store.created) != 0 {
		t.Fatal("cancel must leave nothing persisted")
	}
}

func waitForState(t *testing.T, w *Workflow, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if w.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, still %s", want, w.State())
}
