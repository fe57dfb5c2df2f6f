// Package extract defines the contract with the external document-field
// extractor (OCR/LLM). The engine treats it as opaque: it hands over file
// bytes and receives structured fields plus the raw text.
package extract

import (
	"context"
	"time"
)

// Fields is the immutable output of the extractor for one document.
type Fields struct {
	RawInsuredName  string
	InsuredName     string
	PolicyNumber    string
	EffectiveDate   time.Time
	ExpirationDate  time.Time
	InsurerName     string
	CoverageAmounts map[string]string
	DocumentType    string
	Confidence      float64
	RawText         string
}

// BestName returns the extractor's preferred insured-name reading, falling
// back to the raw string when no cleaned name was produced.
func (f Fields) BestName() string {
	if f.InsuredName != "" {
		return f.InsuredName
	}
	return f.RawInsuredName
}

// Extractor turns raw document bytes into structured fields.
type Extractor interface {
	Extract(ctx context.Context, fileName string, data []byte) (Fields, error)
}
