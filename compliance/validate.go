package compliance

import "errors"

var (
	// ErrAssignmentMissing signals that neither an employee nor an external
	// name was assigned.
	ErrAssignmentMissing = errors.New("compliance: assignment requires an employee or an external name")
	// ErrAssignmentAmbiguous signals that both assignment modes were set.
	ErrAssignmentAmbiguous = errors.New("compliance: assignment cannot name both an employee and an external name")
	// ErrMissingIssueDate signals an absent issue date.
	ErrMissingIssueDate = errors.New("compliance: issue date required")
	// ErrMissingExpiration signals an absent expiration date.
	ErrMissingExpiration = errors.New("compliance: expiration date required")
	// ErrInvalidType signals an unknown certificate type.
	ErrInvalidType = errors.New("compliance: invalid certificate type")
)

// Validate enforces the per-record rules shared by the bulk importer and the
// single-upload workflow: exactly one assignment mode, both dates present,
// and a known certificate type.
func (p RecordParams) Validate() error {
	switch {
	case p.EmployeeID == "" && p.ExternalName == "":
		return ErrAssignmentMissing
	case p.EmployeeID != "" && p.ExternalName != "":
		return ErrAssignmentAmbiguous
	}
	if p.IssueDate.IsZero() {
		return ErrMissingIssueDate
	}
	if p.ExpirationDate.IsZero() {
		return ErrMissingExpiration
	}
	if !p.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}
