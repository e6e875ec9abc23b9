package entity

import (
	"encoding/json"
	"strings"
)

// Confidence is the per-field trust tag attached at extraction time.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// ParseConfidence lowercases s and maps anything unrecognized to none.
func ParseConfidence(s string) Confidence {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceNone:
		return c
	default:
		return ConfidenceNone
	}
}

func (c *Confidence) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// null or a non-string hint from upstream
		*c = ConfidenceNone
		return nil
	}
	*c = ParseConfidence(s)
	return nil
}

// Field is a value plus the confidence it was captured with.
// A nil or blank Value carries no usable data whatever the tag says.
type Field struct {
	Value      *string    `json:"value"`
	Confidence Confidence `json:"confidence"`
}

// NewField trims v and stores blank input as nil.
func NewField(v string, c Confidence) Field {
	v = strings.TrimSpace(v)
	if v == "" {
		return Field{Confidence: c}
	}
	return Field{Value: &v, Confidence: c}
}

// EmptyField is the placeholder for data the extractor did not find.
func EmptyField() Field {
	return Field{Confidence: ConfidenceNone}
}

func (f Field) IsBlank() bool {
	return f.Value == nil || strings.TrimSpace(*f.Value) == ""
}

// String returns the value or "" when absent.
func (f Field) String() string {
	if f.Value == nil {
		return ""
	}
	return *f.Value
}

func (f Field) normalized() Field {
	if f.Confidence == "" {
		f.Confidence = ConfidenceNone
	}
	if f.IsBlank() {
		f.Value = nil
	}
	return f
}
