package review

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/ravisuresh229/bidbook/internal/common"
)

// IndexSet is a set of record positions. Operations return new sets.
type IndexSet map[int]struct{}

// SelectionSet holds the records chosen for the next workflow stage.
type SelectionSet = IndexSet

// NewSelectionSet builds a set over a record set of size n.
func NewSelectionSet(n int, indices ...int) (SelectionSet, error) {
	s := make(IndexSet, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, common.InvalidInputErrorf("index %d out of range [0, %d)", i, n)
		}
		s[i] = struct{}{}
	}
	return s, nil
}

func (s IndexSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

func (s IndexSet) Len() int { return len(s) }

// Sorted returns the members in ascending order.
func (s IndexSet) Sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

func (s IndexSet) clone() IndexSet {
	out := make(IndexSet, len(s))
	maps.Copy(out, s)
	return out
}

// With returns a copy including indices.
func (s IndexSet) With(indices ...int) IndexSet {
	out := s.clone()
	for _, i := range indices {
		out[i] = struct{}{}
	}
	return out
}

// Without returns a copy excluding indices.
func (s IndexSet) Without(indices ...int) IndexSet {
	out := s.clone()
	for _, i := range indices {
		delete(out, i)
	}
	return out
}

// Prune drops positions that fall outside a record set of size n.
func (s IndexSet) Prune(n int) IndexSet {
	out := make(IndexSet, len(s))
	for i := range s {
		if i >= 0 && i < n {
			out[i] = struct{}{}
		}
	}
	return out
}

// shiftAfterRemoval drops removed and renumbers the positions behind it.
func (s IndexSet) shiftAfterRemoval(removed int) IndexSet {
	out := make(IndexSet, len(s))
	for i := range s {
		switch {
		case i < removed:
			out[i] = struct{}{}
		case i > removed:
			out[i-1] = struct{}{}
		}
	}
	return out
}

// Equal reports set equality.
func (s IndexSet) Equal(other IndexSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !other.Contains(i) {
			return false
		}
	}
	return true
}

func (s IndexSet) MarshalJSON() ([]byte, error) {
	sorted := s.Sorted()
	if sorted == nil {
		sorted = []int{}
	}
	return json.Marshal(sorted)
}

func (s *IndexSet) UnmarshalJSON(b []byte) error {
	var list []int
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	out := make(IndexSet, len(list))
	for _, i := range list {
		out[i] = struct{}{}
	}
	*s = out
	return nil
}
