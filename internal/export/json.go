package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ravisuresh229/bidbook/internal/review"
)

// Batch is the JSON export of a reviewed batch. Each proposal keeps the
// {value, confidence} field shape plus its derived review state.
type Batch struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Total       int                 `json:"total"`
	Invited     int                 `json:"invited"`
	MissingData int                 `json:"missing_data"`
	Proposals   []review.RecordView `json:"proposals"`
	Groups      []review.GroupView  `json:"groups"`
}

// BuildBatch derives the export document from a session.
func BuildBatch(s review.Session, now time.Time) Batch {
	v := s.Snapshot()
	b := Batch{
		GeneratedAt: now.UTC(),
		Total:       len(v.Records),
		Proposals:   v.Records,
		Groups:      v.Groups,
	}
	for _, r := range v.Records {
		if r.Invited {
			b.Invited++
		}
		if r.Category == review.CategoryLow {
			b.MissingData++
		}
	}
	return b
}

// WriteJSON writes the batch as indented JSON.
func (s *Service) WriteJSON(w io.Writer, sess review.Session, now time.Time) error {
	b := BuildBatch(sess, now)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	s.logger.Info("export.json.ok", "rows", b.Total, "invited", b.Invited)
	return nil
}
