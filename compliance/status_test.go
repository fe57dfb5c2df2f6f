package compliance

import (
	"testing"
	"time"
)

var classifyNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func expiring(days int) time.Time {
	return classifyNow.AddDate(0, 0, days)
}

func TestClassify_Bands(t *testing.T) {
	cases := []struct {
		name    string
		days    int
		status  Status
		cadence AlertCadence
	}{
		{"expired yesterday", -1, StatusExpired, CadenceDaily},
		{"expired long ago", -400, StatusExpired, CadenceDaily},
		{"expires today", 0, StatusExpiresImminent, CadenceDaily},
		{"expires in 5 days", 5, StatusExpiresImminent, CadenceDaily},
		{"imminent upper bound", 7, StatusExpiresImminent, CadenceDaily},
		{"two week band lower", 8, StatusExpiresSoon2W, CadenceLead14},
		{"two week band upper", 14, StatusExpiresSoon2W, CadenceLead14},
		{"one month band lower", 15, StatusExpiresSoon1M, CadenceLead30},
		{"one month band upper", 30, StatusExpiresSoon1M, CadenceLead30},
		{"active", 31, StatusActive, CadenceNone},
		{"active far out", 365, StatusActive, CadenceNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, cadence := Classify(expiring(tc.days), classifyNow)
			if status != tc.status {
				t.Fatalf("days=%d: expected status %s, got %s", tc.days, tc.status, status)
			}
			if cadence != tc.cadence {
				t.Fatalf("days=%d: expected cadence %+v, got %+v", tc.days, tc.cadence, cadence)
			}
		})
	}
}

func TestClassify_SeverityMonotonic(t *testing.T) {
	// Walking the expiration date backwards must never decrease severity.
	prev := -1
	for days := 60; days >= -10; days-- {
		_, cadence := Classify(expiring(days), classifyNow)
		if cadence.Severity < prev {
			t.Fatalf("severity decreased at days=%d: %d -> %d", days, prev, cadence.Severity)
		}
		prev = cadence.Severity
	}
}

func TestClassify_DailyContinuesThroughExpiry(t *testing.T) {
	_, imminent := Classify(expiring(3), classifyNow)
	_, expired := Classify(expiring(-3), classifyNow)
	if imminent != expired {
		t.Fatalf("daily cadence must continue unchanged through expiry: %+v vs %+v", imminent, expired)
	}
}

func TestDaysUntil_IgnoresTimeOfDay(t *testing.T) {
	// 23:59 on the expiration day is still day zero, not expired.
	exp := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC)
	if d := DaysUntil(exp, now); d != 0 {
		t.Fatalf("expected 0 days, got %d", d)
	}

	now = time.Date(2025, 6, 16, 0, 1, 0, 0, time.UTC)
	if d := DaysUntil(exp, now); d != -1 {
		t.Fatalf("expected -1 day, got %d", d)
	}
}

func TestClassify_ClockChangeReflectedImmediately(t *testing.T) {
	exp := expiring(10)

	status, _ := Classify(exp, classifyNow)
	if status != StatusExpiresSoon2W {
		t.Fatalf("expected EXPIRES_SOON_2W, got %s", status)
	}

	later := classifyNow.AddDate(0, 0, 20)
	status, _ = Classify(exp, later)
	if status != StatusExpired {
		t.Fatalf("expected EXPIRED after clock advance, got %s", status)
	}
}
