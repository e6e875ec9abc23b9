package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

func sampleRecords() entity.RecordSet {
	return entity.RecordSet{
		newRecord(withCompany("Acme Electric"), withEmail("ops@acme.com"), withTrade("Electrical")),
		newRecord(withCompany("Dalton Electric"), withPhone("3012360429"), withTrade("Electrical")),
		newRecord(withCompany("Stone Concrete"), withEmail("bid@stone.com"), withTrade("Concrete")),
		newRecord(withTrade("Plumbing")),
	}
}

func TestPartitionForAction(t *testing.T) {
	records := sampleRecords()
	sel, err := NewSelectionSet(len(records), 3, 0, 1, 2)
	require.NoError(t, err)

	ready, blocked, err := PartitionForAction(records, sel, entity.FieldEmail)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, ready)
	assert.Equal(t, []int{1, 3}, blocked)
}

func TestPartitionTotality(t *testing.T) {
	records := sampleRecords()
	selections := [][]int{{}, {0}, {1}, {0, 1, 2, 3}, {3, 1}}
	for _, fieldName := range []entity.FieldName{entity.FieldEmail, entity.FieldPhone, entity.FieldCompanyName} {
		for _, idx := range selections {
			sel, err := NewSelectionSet(len(records), idx...)
			require.NoError(t, err)

			ready, blocked, err := PartitionForAction(records, sel, fieldName)
			require.NoError(t, err)

			union := IndexSet{}.With(ready...).With(blocked...)
			assert.True(t, union.Equal(sel))
			assert.Equal(t, len(sel), len(ready)+len(blocked), "ready and blocked must be disjoint")
			assert.IsIncreasing(t, append([]int{-1}, ready...))
			assert.IsIncreasing(t, append([]int{-1}, blocked...))
		}
	}
}

func TestPartitionRejectsBadInput(t *testing.T) {
	records := sampleRecords()

	_, _, err := PartitionForAction(records, IndexSet{}.With(9), entity.FieldEmail)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, _, err = PartitionForAction(records, IndexSet{}, entity.FieldName("fax"))
	var fieldErr *common.InvalidFieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestNewSelectionSetRange(t *testing.T) {
	_, err := NewSelectionSet(2, 0, 2)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = NewSelectionSet(2, -1)
	assert.Error(t, err)
}

func TestNotificationExpiry(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := successNotification(2, now, time.Second)
	assert.False(t, n.Expired(now))
	assert.True(t, n.Expired(now.Add(time.Second)))
	assert.Equal(t, "Invitations sent to 2 subcontractor(s)", n.Message)
}
