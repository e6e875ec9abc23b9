package review

import (
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// RecordView is a record with its derived review state.
type RecordView struct {
	Index             int           `json:"index"`
	Record            entity.Record `json:"record"`
	Score             float64       `json:"score"`
	Category          Category      `json:"confidence_category"`
	DisplayConfidence string        `json:"display_confidence"`
	Selected          bool          `json:"selected"`
	Invited           bool          `json:"invited"`
	Flagged           bool          `json:"flagged"`
}

// GroupView is a group with its aggregate selection state.
type GroupView struct {
	Group
	AllSelected bool `json:"all_selected"`
	Collapsed   bool `json:"collapsed"`
	MissingData int  `json:"missing_data"`
}

// View is everything the UI renders, derived from a Session on demand.
type View struct {
	Records       []RecordView   `json:"records"`
	Groups        []GroupView    `json:"groups"`
	Ready         []int          `json:"ready"`
	Blocked       []int          `json:"blocked"`
	Notifications []Notification `json:"notifications"`
}

// Snapshot derives the current view. Out-of-range selections are pruned first.
func (s Session) Snapshot() View {
	s = s.Normalize()

	v := View{
		Records:       make([]RecordView, len(s.Records)),
		Groups:        make([]GroupView, 0),
		Notifications: s.Notifications,
	}
	for i, r := range s.Records {
		cat := ConfidenceCategory(r)
		v.Records[i] = RecordView{
			Index:             i,
			Record:            r,
			Score:             Score(r),
			Category:          cat,
			DisplayConfidence: cat.Display(),
			Selected:          s.Selection.Contains(i),
			Invited:           s.Invited.Contains(i),
			Flagged:           s.Flagged.Contains(i),
		}
	}

	for _, g := range GroupByTrade(s.Records) {
		gv := GroupView{
			Group:       g,
			AllSelected: AllSelected(g, s.Selection),
			Collapsed:   s.Collapsed[g.Label],
		}
		for _, i := range g.Indices {
			if NeedsReview(s.Records[i]) {
				gv.MissingData++
			}
		}
		v.Groups = append(v.Groups, gv)
	}

	// Normalize pruned the selection, so the partition cannot fail.
	v.Ready, v.Blocked, _ = PartitionForInvite(s.Records, s.Selection)
	return v
}
