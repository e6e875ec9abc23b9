package review

import (
	"maps"
	"sort"
	"strings"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// Group is a trade label and the positions of its records, in record order.
type Group struct {
	Label   string `json:"label"`
	Indices []int  `json:"indices"`
}

// TradeLabel is the group key for a record.
func TradeLabel(r entity.Record) string {
	if r.Trade.IsBlank() {
		return constants.Uncategorized
	}
	return strings.TrimSpace(*r.Trade.Value)
}

// GroupByTrade partitions records by trade, ordered lexicographically by label.
func GroupByTrade(records entity.RecordSet) []Group {
	byLabel := make(map[string][]int)
	for i, r := range records {
		label := TradeLabel(r)
		byLabel[label] = append(byLabel[label], i)
	}

	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	groups := make([]Group, 0, len(labels))
	for _, l := range labels {
		groups = append(groups, Group{Label: l, Indices: byLabel[l]})
	}
	return groups
}

// FindGroup looks a group up by label.
func FindGroup(groups []Group, label string) (Group, bool) {
	for _, g := range groups {
		if g.Label == label {
			return g, true
		}
	}
	return Group{}, false
}

// AllSelected reports whether every member of g is in selection.
func AllSelected(g Group, selection SelectionSet) bool {
	for _, i := range g.Indices {
		if !selection.Contains(i) {
			return false
		}
	}
	return true
}

// ToggleGroupSelection deselects the whole group when it is fully selected
// and selects all of it otherwise.
func ToggleGroupSelection(g Group, selection SelectionSet) SelectionSet {
	if AllSelected(g, selection) {
		return selection.Without(g.Indices...)
	}
	return selection.With(g.Indices...)
}

// CollapsedSet holds the labels of groups folded in the view.
type CollapsedSet map[string]bool

// ToggleCollapsed flips one group's collapsed state.
func ToggleCollapsed(label string, collapsed CollapsedSet) CollapsedSet {
	out := make(CollapsedSet, len(collapsed)+1)
	maps.Copy(out, collapsed)
	if out[label] {
		delete(out, label)
	} else {
		out[label] = true
	}
	return out
}
