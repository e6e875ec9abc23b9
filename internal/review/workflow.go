package review

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// PartitionForAction splits the selection into records that carry the
// required field (ready) and those that do not (blocked). Both keep record
// order; together they are exactly the selection.
func PartitionForAction(records entity.RecordSet, selection SelectionSet, required entity.FieldName) (ready, blocked []int, err error) {
	if _, ok := entity.ParseFieldName(string(required)); !ok {
		return nil, nil, &common.InvalidFieldError{Field: string(required)}
	}
	for i := range selection {
		if i < 0 || i >= len(records) {
			return nil, nil, common.InvalidInputErrorf("selected index %d out of range [0, %d)", i, len(records))
		}
	}

	ready = make([]int, 0, len(selection))
	blocked = make([]int, 0)
	for i, r := range records {
		if !selection.Contains(i) {
			continue
		}
		f, _ := r.Get(required)
		if f.IsBlank() {
			blocked = append(blocked, i)
		} else {
			ready = append(ready, i)
		}
	}
	return ready, blocked, nil
}

// PartitionForInvite partitions on email, the field an invitation needs.
func PartitionForInvite(records entity.RecordSet, selection SelectionSet) (ready, blocked []int, err error) {
	return PartitionForAction(records, selection, entity.FieldEmail)
}

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
)

// Notification is transient UI state; expiry is advisory.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Companies []string         `json:"companies,omitempty"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Expired reports whether the notification should no longer be shown.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// InviteResult is the outcome of one invitation pass.
type InviteResult struct {
	Ready         []int          `json:"ready"`
	Blocked       []int          `json:"blocked"`
	NewlyInvited  []int          `json:"newly_invited"`
	Notifications []Notification `json:"notifications"`
}

func displayName(r entity.Record, index int) string {
	switch {
	case !r.CompanyName.IsBlank():
		return r.CompanyName.String()
	case !r.SourceFile.IsBlank():
		return r.SourceFile.String()
	default:
		return fmt.Sprintf("Record #%d", index+1)
	}
}

func successNotification(count int, now time.Time, ttl time.Duration) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      NotificationSuccess,
		Message:   fmt.Sprintf("Invitations sent to %d subcontractor(s)", count),
		ExpiresAt: now.Add(ttl),
	}
}

func blockedNotification(names []string, now time.Time, ttl time.Duration) Notification {
	return Notification{
		ID:   uuid.NewString(),
		Kind: NotificationWarning,
		Message: fmt.Sprintf("%d selected subcontractor(s) are missing an email and were not invited: %s",
			len(names), strings.Join(names, ", ")),
		Companies: names,
		ExpiresAt: now.Add(ttl),
	}
}
