package importer

import (
	"time"

	"coiflow/compliance"
	"coiflow/extract"
	"coiflow/identity"
)

// Candidate is one previewed file: derived, correctable, never persisted
// directly. Input order from the folder listing is preserved.
type Candidate struct {
	SourceFileID    string
	FileName        string
	WebLink         string
	Parsed          extract.Fields
	Match           identity.Match
	AlreadyImported bool
}

// DefaultDecision builds the editable overlay for a candidate. New files are
// selected; already-imported ones are not. Assignment defaults to the matched
// employee only when the confident-match gate was met, otherwise to
// external-name mode pre-filled with the parsed name.
func (c Candidate) DefaultDecision() Decision {
	d := Decision{
		SourceFileID:   c.SourceFileID,
		Selected:       !c.AlreadyImported,
		IssueDate:      c.Parsed.EffectiveDate,
		ExpirationDate: c.Parsed.ExpirationDate,
		PolicyNumber:   c.Parsed.PolicyNumber,
		InsurerName:    c.Parsed.InsurerName,
	}
	if t, ok := compliance.ParseDocumentType(c.Parsed.DocumentType); ok {
		d.Type = t
	}
	if c.Match.Confident() {
		d.EmployeeID = c.Match.EmployeeID
	} else {
		d.ExternalName = c.Parsed.BestName()
	}
	return d
}

// Decision is the user-editable overlay committed for a candidate.
type Decision struct {
	SourceFileID   string
	Selected       bool
	EmployeeID     string
	ExternalName   string
	Type           compliance.DocumentType
	IssueDate      time.Time
	ExpirationDate time.Time
	PolicyNumber   string
	InsurerName    string
	Notes          string
}

func (d Decision) recordParams() compliance.RecordParams {
	return compliance.RecordParams{
		EmployeeID:     d.EmployeeID,
		ExternalName:   d.ExternalName,
		Type:           d.Type,
		IssueDate:      d.IssueDate,
		ExpirationDate: d.ExpirationDate,
		PolicyNumber:   d.PolicyNumber,
		InsurerName:    d.InsurerName,
		SourceFileID:   d.SourceFileID,
		Notes:          d.Notes,
	}
}

// ExtractionError records a per-file extraction failure. It never aborts the
// surrounding batch.
type ExtractionError struct {
	SourceFileID string
	FileName     string
	Err          error
}

// Preview is the reconciled view of a folder: candidates in listing order
// plus the files whose extraction failed.
type Preview struct {
	Candidates []Candidate
	Errors     []ExtractionError
}

// Outcome classifies what happened to one committed decision.
type Outcome string

const (
	OutcomeImported         Outcome = "imported"
	OutcomeSkippedDuplicate Outcome = "skipped_duplicate"
	OutcomeSkippedInvalid   Outcome = "skipped_invalid"
	OutcomeFailed           Outcome = "failed"
)

// DecisionOutcome reports the per-item result of a commit.
type DecisionOutcome struct {
	SourceFileID string
	Outcome      Outcome
	Err          error
	DocumentID   string
}

// CommitResult totals a commit. Imported counts persisted records, Skipped
// covers duplicates and rejected decisions, Failed covers persistence errors.
type CommitResult struct {
	BatchID  string
	Imported int
	Skipped  int
	Failed   int
	Outcomes []DecisionOutcome
}
