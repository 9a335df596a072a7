package billing

import (
	"iter"
	"time"

	"tailor-backend/internal/models"
)

// CandidateSource tells where a carry-forward candidate came from.
type CandidateSource string

const (
	SourceCurrent  CandidateSource = "current"
	SourcePrevious CandidateSource = "previous"
)

// Candidate is a measurement set that can be copied into a line of the same category.
type Candidate struct {
	Source       CandidateSource     `json:"source"`
	LineID       string              `json:"line_id"`
	BillID       string              `json:"bill_id,omitempty"`
	BillNumber   string              `json:"bill_number,omitempty"`
	Date         *time.Time          `json:"date,omitempty"`
	Measurements models.Measurements `json:"measurements"`
}

// FindCandidates yields measurement sets for category: first the other lines of
// the bill being composed, then the first matching line of each prior bill in
// the order given. Ranging over the result twice recomputes it.
func FindCandidates(current []models.BillLineItem, category, excludeLineID string, prior []models.Bill) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, line := range current {
			if line.ID == excludeLineID || !matches(line, category) {
				continue
			}
			if !yield(Candidate{
				Source:       SourceCurrent,
				LineID:       line.ID,
				Measurements: line.Measurements.Clone(),
			}) {
				return
			}
		}
		for i := range prior {
			b := &prior[i]
			for _, line := range b.Items {
				if !matches(line, category) {
					continue
				}
				date := b.Date
				if !yield(Candidate{
					Source:       SourcePrevious,
					LineID:       line.ID,
					BillID:       b.ID,
					BillNumber:   b.BillNumber,
					Date:         &date,
					Measurements: line.Measurements.Clone(),
				}) {
					return
				}
				break
			}
		}
	}
}

func matches(line models.BillLineItem, category string) bool {
	return line.Category == category && len(line.Measurements) > 0
}
