package compliance

import "time"

// Status classifies a certificate by its remaining validity window.
type Status string

const (
	StatusActive          Status = "ACTIVE"
	StatusExpiresSoon1M   Status = "EXPIRES_SOON_1M"
	StatusExpiresSoon2W   Status = "EXPIRES_SOON_2W"
	StatusExpiresImminent Status = "EXPIRES_IMMINENT"
	StatusExpired         Status = "EXPIRED"
)

// AlertCadence is the notification schedule derived from a certificate's
// remaining validity. It is computed on read and never stored.
type AlertCadence struct {
	Label    string
	Severity int
}

// Cadences in escalation order. Severity never decreases as the expiration
// date approaches; once daily alerts begin they continue unchanged through
// expiry until the certificate is renewed or deleted.
var (
	CadenceNone   = AlertCadence{Label: "none", Severity: 0}
	CadenceLead30 = AlertCadence{Label: "30-day notice", Severity: 1}
	CadenceLead14 = AlertCadence{Label: "14-day notice", Severity: 2}
	CadenceDaily  = AlertCadence{Label: "daily", Severity: 3}
)

// DaysUntil returns the number of calendar days from now until expiration,
// comparing UTC dates. The result is negative once the expiration date has
// passed.
func DaysUntil(expiration, now time.Time) int {
	e := expiration.UTC()
	n := now.UTC()
	eDate := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	nDate := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
	return int(eDate.Sub(nDate).Hours() / 24)
}

// Classify maps an expiration date and the current time to a status and
// alert cadence. Pure: any clock change is reflected on the next call.
func Classify(expiration, now time.Time) (Status, AlertCadence) {
	days := DaysUntil(expiration, now)
	switch {
	case days < 0:
		return StatusExpired, CadenceDaily
	case days <= 7:
		return StatusExpiresImminent, CadenceDaily
	case days <= 14:
		return StatusExpiresSoon2W, CadenceLead14
	case days <= 30:
		return StatusExpiresSoon1M, CadenceLead30
	default:
		return StatusActive, CadenceNone
	}
}

// Snapshot computes the derived view of a document at the given instant.
func Snapshot(doc Document, now time.Time) DocumentStatus {
	status, cadence := Classify(doc.ExpirationDate, now)
	return DocumentStatus{
		Document:      doc,
		Status:        status,
		Cadence:       cadence,
		DaysRemaining: DaysUntil(doc.ExpirationDate, now),
	}
}
