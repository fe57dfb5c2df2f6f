package compliance

import (
	"strings"
	"time"
)

// DocumentType enumerates the certificate kinds tracked by the engine.
type DocumentType string

const (
	TypeWorkersComp      DocumentType = "WORKERS_COMP"
	TypeGeneralLiability DocumentType = "GENERAL_LIABILITY"
)

// IsValid reports whether t is one of the allowed certificate types.
func (t DocumentType) IsValid() bool {
	switch t {
	case TypeWorkersComp, TypeGeneralLiability:
		return true
	default:
		return false
	}
}

// ParseDocumentType maps an extractor's free-form document-type reading onto
// the enum. The second return is false when the reading is unrecognized.
func ParseDocumentType(s string) (DocumentType, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	switch normalized {
	case "WORKERS_COMP", "WORKERS_COMPENSATION", "WC":
		return TypeWorkersComp, true
	case "GENERAL_LIABILITY", "GL":
		return TypeGeneralLiability, true
	default:
		return "", false
	}
}

// Document is a persisted certificate-of-insurance record. Exactly one of
// EmployeeID and ExternalName is set. Status is never stored on the record;
// it is derived from ExpirationDate on every read.
type Document struct {
	ID             string
	EmployeeID     *string
	ExternalName   *string
	Type           DocumentType
	IssueDate      time.Time
	ExpirationDate time.Time
	PolicyNumber   *string
	InsurerName    *string
	SourceFileID   *string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RecordParams enumerates the writable fields of a certificate record. It is
// the single shape both the bulk importer and the single-upload workflow
// validate and persist, so records from either path are structurally
// identical.
type RecordParams struct {
	EmployeeID     string
	ExternalName   string
	Type           DocumentType
	IssueDate      time.Time
	ExpirationDate time.Time
	PolicyNumber   string
	InsurerName    string
	SourceFileID   string
	Notes          string
}

// DocumentStatus pairs a stored document with its derived classification.
type DocumentStatus struct {
	Document
	Status        Status
	Cadence       AlertCadence
	DaysRemaining int
}
