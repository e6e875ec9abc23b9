package review

import (
	"slices"
	"time"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// DefaultNotificationTTL is how long invite notifications stay visible.
const DefaultNotificationTTL = 4 * time.Second

// Session is the review state for one batch of proposals. It is a value:
// every operation returns a new Session and leaves the receiver unchanged.
type Session struct {
	Records       entity.RecordSet `json:"records"`
	Selection     SelectionSet     `json:"selection"`
	Collapsed     CollapsedSet     `json:"collapsed"`
	Invited       IndexSet         `json:"invited"`
	Flagged       IndexSet         `json:"flagged"`
	Notifications []Notification   `json:"notifications"`

	NotificationTTL time.Duration `json:"-"`
}

func NewSession(records entity.RecordSet) Session {
	return Session{
		Records:         slices.Clone(records),
		Selection:       IndexSet{},
		Collapsed:       CollapsedSet{},
		Invited:         IndexSet{},
		Flagged:         IndexSet{},
		NotificationTTL: DefaultNotificationTTL,
	}
}

// Normalize repairs a session decoded from a client: missing fields are
// filled, nil sets are allocated and out-of-range indices are dropped.
func (s Session) Normalize() Session {
	n := len(s.Records)
	records := make(entity.RecordSet, n)
	for i, r := range s.Records {
		records[i] = r.Normalize()
	}
	s.Records = records
	s.Selection = s.Selection.Prune(n)
	s.Invited = s.Invited.Prune(n)
	s.Flagged = s.Flagged.Prune(n)
	if s.Collapsed == nil {
		s.Collapsed = CollapsedSet{}
	}
	if s.NotificationTTL <= 0 {
		s.NotificationTTL = DefaultNotificationTTL
	}
	return s
}

func (s Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.Records) {
		return common.InvalidInputErrorf("record index %d out of range [0, %d)", i, len(s.Records))
	}
	return nil
}

type EditOutcome string

const (
	EditApplied  EditOutcome = "applied"
	EditRejected EditOutcome = "rejected"
)

// Edit runs the soft format gate and then the reconciler. A rejected edit
// leaves the session as it was and is not an error.
func (s Session) Edit(index int, field, value string) (Session, EditOutcome, error) {
	if err := s.checkIndex(index); err != nil {
		return s, "", err
	}
	name, ok := entity.ParseFieldName(field)
	if !ok {
		return s, "", &common.InvalidFieldError{Field: field}
	}
	if err := ValidateEdit(name, value); err != nil {
		return s, EditRejected, nil
	}

	updated, err := ApplyEdit(s.Records[index], field, value)
	if err != nil {
		return s, "", err
	}
	records := slices.Clone(s.Records)
	records[index] = updated
	s.Records = records

	if name == entity.FieldEmail && !updated.Email.IsBlank() {
		s.Flagged = s.Flagged.Without(index)
	}
	return s, EditApplied, nil
}

// Select adds indices to the selection.
func (s Session) Select(indices ...int) (Session, error) {
	for _, i := range indices {
		if err := s.checkIndex(i); err != nil {
			return s, err
		}
	}
	s.Selection = s.Selection.With(indices...)
	return s, nil
}

// Deselect removes indices from the selection.
func (s Session) Deselect(indices ...int) Session {
	s.Selection = s.Selection.Without(indices...)
	return s
}

// ToggleGroup applies the group select-all toggle for label.
func (s Session) ToggleGroup(label string) (Session, error) {
	g, ok := FindGroup(GroupByTrade(s.Records), label)
	if !ok {
		return s, common.InvalidInputErrorf("unknown group %q", label)
	}
	s.Selection = ToggleGroupSelection(g, s.Selection)
	return s, nil
}

// ToggleCollapsed folds or unfolds a group in the view.
func (s Session) ToggleCollapsed(label string) Session {
	s.Collapsed = ToggleCollapsed(label, s.Collapsed)
	return s
}

// RemoveRecord drops a record; indices behind it are renumbered.
func (s Session) RemoveRecord(index int) (Session, error) {
	if err := s.checkIndex(index); err != nil {
		return s, err
	}
	s.Records = slices.Delete(slices.Clone(s.Records), index, index+1)
	s.Selection = s.Selection.shiftAfterRemoval(index)
	s.Invited = s.Invited.shiftAfterRemoval(index)
	s.Flagged = s.Flagged.shiftAfterRemoval(index)
	return s, nil
}

// Invite partitions the selection on email, marks ready records invited and
// flags blocked ones for review. Inviting an invited record is a no-op.
func (s Session) Invite(now time.Time) (Session, InviteResult, error) {
	ready, blocked, err := PartitionForInvite(s.Records, s.Selection)
	if err != nil {
		return s, InviteResult{}, err
	}
	res := InviteResult{
		Ready:         ready,
		Blocked:       blocked,
		NewlyInvited:  make([]int, 0, len(ready)),
		Notifications: make([]Notification, 0, 2),
	}

	for _, i := range ready {
		if !s.Invited.Contains(i) {
			res.NewlyInvited = append(res.NewlyInvited, i)
		}
	}
	s.Invited = s.Invited.With(ready...)
	s.Flagged = s.Flagged.Without(ready...).With(blocked...)

	ttl := s.NotificationTTL
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	if len(ready) > 0 {
		res.Notifications = append(res.Notifications, successNotification(len(ready), now, ttl))
	}
	if len(blocked) > 0 {
		names := make([]string, 0, len(blocked))
		for _, i := range blocked {
			names = append(names, displayName(s.Records[i], i))
		}
		res.Notifications = append(res.Notifications, blockedNotification(names, now, ttl))
	}
	s.Notifications = append(slices.Clone(s.Notifications), res.Notifications...)
	return s, res, nil
}

// ActiveNotifications returns the notifications not yet expired at now.
func (s Session) ActiveNotifications(now time.Time) []Notification {
	out := make([]Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if !n.Expired(now) {
			out = append(out, n)
		}
	}
	return out
}

// ExpireNotifications drops notifications that have timed out.
func (s Session) ExpireNotifications(now time.Time) Session {
	s.Notifications = s.ActiveNotifications(now)
	return s
}

// Reset clears the session.
func (s Session) Reset() Session {
	ttl := s.NotificationTTL
	out := NewSession(nil)
	out.NotificationTTL = ttl
	return out
}
