package review

import (
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// Category is the record-level trust signal shown to reviewers.
type Category string

const (
	CategoryHigh   Category = "High"
	CategoryMedium Category = "Medium"
	CategoryLow    Category = "Low"
)

// Display is the label rendered in the review grid.
func (c Category) Display() string {
	if c == CategoryLow {
		return "Missing Data"
	}
	return string(c)
}

// Penalties in tenths of a point, so thresholds compare exactly.
const (
	emailPenalty   = 5
	phonePenalty   = 1
	contactPenalty = 2
	fullScore      = 10
)

func scoreTenths(r entity.Record) int {
	score := fullScore
	if r.Email.IsBlank() {
		score -= emailPenalty
	}
	if r.Phone.IsBlank() {
		score -= phonePenalty
	}
	if r.ContactName.IsBlank() {
		score -= contactPenalty
	}
	return min(max(score, 0), fullScore)
}

// Score is the completeness score in [0, 1].
func Score(r entity.Record) float64 {
	return float64(scoreTenths(r)) / fullScore
}

// ConfidenceCategory derives the category from field presence alone.
// Per-field confidence tags reported by the extractor are ignored.
func ConfidenceCategory(r entity.Record) Category {
	switch s := scoreTenths(r); {
	case s > 8:
		return CategoryHigh
	case s >= 5:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// NeedsReview reports whether the row must be looked at before export.
func NeedsReview(r entity.Record) bool {
	return ConfidenceCategory(r) == CategoryLow
}
