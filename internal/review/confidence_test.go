package review

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ravisuresh229/bidbook/internal/entity"
)

func TestConfidenceCategory(t *testing.T) {
	cases := []struct {
		name  string
		rec   entity.Record
		score float64
		want  Category
	}{
		{"complete", newRecord(withEmail("a@b.com"), withPhone("3012360429"), withContact("Kenny Moore")), 1.0, CategoryHigh},
		{"missing phone only", newRecord(withEmail("a@b.com"), withContact("Kenny Moore")), 0.9, CategoryHigh},
		{"missing contact only", newRecord(withEmail("a@b.com"), withPhone("3012360429")), 0.8, CategoryMedium},
		{"missing email only", newRecord(withPhone("3012360429"), withContact("Kenny Moore")), 0.5, CategoryMedium},
		{"missing email and phone", newRecord(withContact("Kenny Moore")), 0.4, CategoryLow},
		{"missing email and contact", newRecord(withPhone("3012360429")), 0.3, CategoryLow},
		{"missing all three", newRecord(), 0.2, CategoryLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.score, Score(tc.rec), 1e-9)
			assert.Equal(t, tc.want, ConfidenceCategory(tc.rec))
		})
	}
}

func TestConfidenceIgnoresModelHints(t *testing.T) {
	r := newRecord(withContact("Kenny Moore"), withPhone("3012360429"))
	r.Email = entity.Field{Confidence: entity.ConfidenceHigh}
	assert.Equal(t, CategoryMedium, ConfidenceCategory(r))

	r = newRecord(withEmail("a@b.com"), withPhone("3012360429"), withContact("Kenny"))
	r.Email.Confidence = entity.ConfidenceLow
	r.Phone.Confidence = entity.ConfidenceNone
	assert.Equal(t, CategoryHigh, ConfidenceCategory(r))
}

func TestWhitespaceCountsAsBlank(t *testing.T) {
	blank := "   "
	r := newRecord(withPhone("3012360429"), withContact("Kenny"))
	r.Email = entity.Field{Value: &blank, Confidence: entity.ConfidenceHigh}
	assert.InDelta(t, 0.5, Score(r), 1e-9)
}

func TestDisplayLabel(t *testing.T) {
	assert.Equal(t, "Missing Data", CategoryLow.Display())
	assert.Equal(t, "Medium", CategoryMedium.Display())
	assert.Equal(t, "High", CategoryHigh.Display())
}

func TestAcmeScenario(t *testing.T) {
	r := newRecord(withCompany("Acme Electric"), withPhone("3012360429"), withTrade("Electrical"))
	assert.InDelta(t, 0.3, Score(r), 1e-9)
	assert.Equal(t, CategoryLow, ConfidenceCategory(r))

	edited, err := ApplyEdit(r, "email", "ops@acme.com")
	assert.NoError(t, err)
	assert.InDelta(t, 0.8, Score(edited), 1e-9)
	assert.Equal(t, CategoryMedium, ConfidenceCategory(edited))
	assert.Equal(t, entity.ConfidenceHigh, edited.Email.Confidence)
}
