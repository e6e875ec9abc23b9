package review

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

var now = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestSessionEditGate(t *testing.T) {
	s := NewSession(sampleRecords())

	s2, outcome, err := s.Edit(1, "email", "not-an-email")
	require.NoError(t, err)
	assert.Equal(t, EditRejected, outcome)
	assert.True(t, s2.Records[1].Email.IsBlank())

	s3, outcome, err := s.Edit(1, "phone", "301-236")
	require.NoError(t, err)
	assert.Equal(t, EditRejected, outcome)
	assert.Equal(t, "3012360429", s3.Records[1].Phone.String())

	s4, outcome, err := s.Edit(1, "email", "estimating@dalton.net")
	require.NoError(t, err)
	assert.Equal(t, EditApplied, outcome)
	assert.Equal(t, "estimating@dalton.net", s4.Records[1].Email.String())
	assert.True(t, s.Records[1].Email.IsBlank(), "receiver must not change")

	s5, outcome, err := s4.Edit(1, "phone", "")
	require.NoError(t, err)
	assert.Equal(t, EditApplied, outcome)
	assert.Nil(t, s5.Records[1].Phone.Value)
	assert.Equal(t, entity.ConfidenceHigh, s5.Records[1].Phone.Confidence)
}

func TestSessionEditErrors(t *testing.T) {
	s := NewSession(sampleRecords())

	_, _, err := s.Edit(0, "fax", "1")
	var fieldErr *common.InvalidFieldError
	assert.ErrorAs(t, err, &fieldErr)

	_, _, err = s.Edit(10, "email", "a@b.com")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSelectionSurvivesEdits(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0, 1)
	require.NoError(t, err)

	s, _, err = s.Edit(1, "trade", "Concrete")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, s.Selection.Sorted())
}

func TestSelectionDoesNotSurviveRemoval(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0, 1, 3)
	require.NoError(t, err)

	s, err = s.RemoveRecord(1)
	require.NoError(t, err)
	assert.Len(t, s.Records, 3)
	assert.Equal(t, []int{0, 2}, s.Selection.Sorted())
	assert.Equal(t, "Plumbing", s.Records[2].Trade.String())
}

func TestSessionInvite(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0, 1, 2)
	require.NoError(t, err)

	s2, res, err := s.Invite(now)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, res.Ready)
	assert.Equal(t, []int{1}, res.Blocked)
	assert.Equal(t, []int{0, 2}, res.NewlyInvited)
	assert.Equal(t, []int{0, 2}, s2.Invited.Sorted())
	assert.Equal(t, []int{1}, s2.Flagged.Sorted())

	require.Len(t, res.Notifications, 2)
	assert.Equal(t, NotificationSuccess, res.Notifications[0].Kind)
	assert.Equal(t, NotificationWarning, res.Notifications[1].Kind)
	assert.Equal(t, []string{"Dalton Electric"}, res.Notifications[1].Companies)
	assert.Contains(t, res.Notifications[1].Message, "Dalton Electric")
	assert.Equal(t, now.Add(DefaultNotificationTTL), res.Notifications[0].ExpiresAt)

	assert.Empty(t, s.Invited, "receiver must not change")
}

func TestInviteIsIdempotent(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0)
	require.NoError(t, err)

	s, _, err = s.Invite(now)
	require.NoError(t, err)
	s, res, err := s.Invite(now.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, []int{0}, s.Invited.Sorted())
	assert.Empty(t, res.NewlyInvited)
	assert.Equal(t, []int{0}, res.Ready)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"newly_invited":[]`)
}

func TestInviteEmptySelectionEncodesArrays(t *testing.T) {
	_, res, err := NewSession(sampleRecords()).Invite(now)
	require.NoError(t, err)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ready":[],"blocked":[],"newly_invited":[],"notifications":[]}`, string(b))
}

func TestInviteIndependentOfCategory(t *testing.T) {
	// Email present but contact and phone missing: Medium at best, still invitable.
	records := entity.RecordSet{newRecord(withCompany("Lone Email"), withEmail("x@y.com"))}
	require.Equal(t, CategoryMedium, ConfidenceCategory(records[0]))

	s, err := NewSession(records).Select(0)
	require.NoError(t, err)
	s, _, err = s.Invite(now)
	require.NoError(t, err)
	assert.True(t, s.Invited.Contains(0))
}

func TestFixingEmailClearsFlagAndAllowsInvite(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(1)
	require.NoError(t, err)
	s, _, err = s.Invite(now)
	require.NoError(t, err)
	require.True(t, s.Flagged.Contains(1))

	s, _, err = s.Edit(1, "email", "est@dalton.net")
	require.NoError(t, err)
	assert.False(t, s.Flagged.Contains(1))

	s, res, err := s.Invite(now)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, res.NewlyInvited)
}

func TestNotificationsExpire(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0, 1)
	require.NoError(t, err)
	s.NotificationTTL = 2 * time.Second

	s, _, err = s.Invite(now)
	require.NoError(t, err)
	assert.Len(t, s.ActiveNotifications(now.Add(time.Second)), 2)
	assert.Empty(t, s.ActiveNotifications(now.Add(2*time.Second)))
	assert.Empty(t, s.ExpireNotifications(now.Add(3*time.Second)).Notifications)
}

func TestToggleGroupOnSession(t *testing.T) {
	s := NewSession(sampleRecords())
	s, err := s.ToggleGroup("Electrical")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, s.Selection.Sorted())

	s, err = s.ToggleGroup("Electrical")
	require.NoError(t, err)
	assert.Empty(t, s.Selection)

	_, err = s.ToggleGroup("Roofing")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSnapshot(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0, 1)
	require.NoError(t, err)
	s = s.ToggleCollapsed("Plumbing")

	v := s.Snapshot()
	require.Len(t, v.Records, 4)
	assert.Equal(t, CategoryMedium, v.Records[0].Category)
	assert.Equal(t, "Missing Data", v.Records[3].DisplayConfidence)
	assert.True(t, v.Records[1].Selected)

	require.Len(t, v.Groups, 3)
	assert.Equal(t, "Concrete", v.Groups[0].Label)
	assert.Equal(t, "Electrical", v.Groups[1].Label)
	assert.True(t, v.Groups[1].AllSelected)
	assert.Equal(t, 1, v.Groups[1].MissingData)
	assert.True(t, v.Groups[2].Collapsed)

	assert.Equal(t, []int{0}, v.Ready)
	assert.Equal(t, []int{1}, v.Blocked)
}

func TestSessionJSONRoundTripNormalizes(t *testing.T) {
	payload := `{
		"records": [{"company_name": {"value": "Acme", "confidence": "high"}}],
		"selection": [0, 7],
		"invited": [0]
	}`
	var s Session
	require.NoError(t, json.Unmarshal([]byte(payload), &s))
	s = s.Normalize()

	assert.Equal(t, []int{0}, s.Selection.Sorted())
	assert.Equal(t, entity.ConfidenceNone, s.Records[0].Email.Confidence)
	assert.NotNil(t, s.Flagged)
	assert.Equal(t, DefaultNotificationTTL, s.NotificationTTL)
}

func TestReset(t *testing.T) {
	s, err := NewSession(sampleRecords()).Select(0)
	require.NoError(t, err)
	s = s.Reset()
	assert.Empty(t, s.Records)
	assert.Empty(t, s.Selection)
}
