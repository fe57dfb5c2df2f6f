// Package upload implements the single-document confirmation workflow: an
// explicit state machine around analyze → review → confirm so that an
// unreviewed extraction can never be persisted.
package upload

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"coiflow/compliance"
	"coiflow/extract"
	"coiflow/identity"
	"coiflow/roster"
)

// State is the workflow position. CONFIRMED and CANCELLED are transitions,
// not resting states: both reset the workflow to EMPTY.
type State string

const (
	StateEmpty     State = "EMPTY"
	StateAnalyzing State = "ANALYZING"
	StateReview    State = "REVIEW"
)

var (
	// ErrNotEmpty signals an Analyze call while a document is under review.
	ErrNotEmpty = errors.New("upload: a document is already under review")
	// ErrAnalyzing signals a call that requires REVIEW while analysis runs.
	ErrAnalyzing = errors.New("upload: analysis in progress")
	// ErrNoDraft signals a REVIEW-only call with no document under review.
	ErrNoDraft = errors.New("upload: no document under review")
)

// Draft is the reviewable result of analyzing one file. Params carries the
// editable record fields, pre-filled per the confident-match gate.
type Draft struct {
	FileName string
	Parsed   extract.Fields
	Match    identity.Match
	Params   compliance.RecordParams
}

// Store persists the confirmed record.
type Store interface {
	Create(ctx context.Context, params compliance.RecordParams) (compliance.Document, error)
}

// Workflow drives one single-upload session.
type Workflow struct {
	extractor extract.Extractor
	people    roster.Provider
	store     Store

	mu    sync.Mutex
	state State
	draft *Draft
	gen   uint64
}

// NewWorkflow builds an empty workflow over the given collaborators.
func NewWorkflow(extractor extract.Extractor, people roster.Provider, store Store) *Workflow {
	return &Workflow{
		extractor: extractor,
		people:    people,
		store:     store,
		state:     StateEmpty,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Draft returns a copy of the document under review.
func (w *Workflow) Draft() (Draft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReview || w.draft == nil {
		return Draft{}, w.reviewErr()
	}
	return *w.draft, nil
}

// Analyze sends the file to the extractor and resolver and moves to REVIEW.
// An extractor failure surfaces the error and returns the workflow to EMPTY.
// A Cancel issued while analysis runs wins: the late result is discarded.
func (w *Workflow) Analyze(ctx context.Context, fileName string, data []byte) (Draft, error) {
	w.mu.Lock()
	switch w.state {
	case StateAnalyzing:
		w.mu.Unlock()
		return Draft{}, ErrAnalyzing
	case StateReview:
		w.mu.Unlock()
		return Draft{}, ErrNotEmpty
	}
	w.state = StateAnalyzing
	w.gen++
	gen := w.gen
	w.mu.Unlock()

	draft, err := w.analyze(ctx, fileName, data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		// Cancelled mid-analysis; discard whatever came back.
		return Draft{}, ErrNoDraft
	}
	if err != nil {
		w.state = StateEmpty
		w.draft = nil
		return Draft{}, err
	}
	w.state = StateReview
	w.draft = &draft
	return draft, nil
}

func (w *Workflow) analyze(ctx context.Context, fileName string, data []byte) (Draft, error) {
	fields, err := w.extractor.Extract(ctx, fileName, data)
	if err != nil {
		return Draft{}, fmt.Errorf("upload: extract %s: %w", fileName, err)
	}
	people, err := w.people.List(ctx)
	if err != nil {
		return Draft{}, fmt.Errorf("upload: load roster: %w", err)
	}

	match := identity.Resolve(fields.BestName(), people)
	params := compliance.RecordParams{
		IssueDate:      fields.EffectiveDate,
		ExpirationDate: fields.ExpirationDate,
		PolicyNumber:   fields.PolicyNumber,
		InsurerName:    fields.InsurerName,
	}
	if t, ok := compliance.ParseDocumentType(fields.DocumentType); ok {
		params.Type = t
	}
	if match.Confident() {
		params.EmployeeID = match.EmployeeID
	} else {
		params.ExternalName = fields.BestName()
	}

	return Draft{
		FileName: fileName,
		Parsed:   fields,
		Match:    match,
		Params:   params,
	}, nil
}

// Edit replaces the editable record fields while under review. Every field
// is editable, including switching between employee and external-name
// assignment; validation happens at Confirm, not here.
func (w *Workflow) Edit(params compliance.RecordParams) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReview || w.draft == nil {
		return w.reviewErr()
	}
	w.draft.Params = params
	return nil
}

// Confirm validates the draft with the same rules as a bulk-import decision,
// persists exactly one record, and resets to EMPTY. On validation or
// persistence failure the workflow stays in REVIEW so the caller can retry;
// nothing partial is ever persisted.
func (w *Workflow) Confirm(ctx context.Context) (compliance.Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReview || w.draft == nil {
		return compliance.Document{}, w.reviewErr()
	}

	params := w.draft.Params
	if err := params.Validate(); err != nil {
		return compliance.Document{}, err
	}

	doc, err := w.store.Create(ctx, params)
	if err != nil {
		return compliance.Document{}, fmt.Errorf("upload: persist record: %w", err)
	}

	w.state = StateEmpty
	w.draft = nil
	w.gen++
	return doc, nil
}

// Cancel discards all in-memory edits with no persistence side effect. It is
// valid in any state, including mid-analysis.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = StateEmpty
	w.draft = nil
	w.gen++
}

func (w *Workflow) reviewErr() error {
	if w.state == StateAnalyzing {
		return ErrAnalyzing
	}
	return ErrNoDraft
}
