package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

func strp(s string) *string { return &s }

func TestIsClientEmail(t *testing.T) {
	client := &ClientInfo{
		CompanyName: strp("Nichols Contracting, Inc."),
		Email:       strp("TWalker@NicholsContracting.com "),
	}
	cases := []struct {
		email string
		ci    *ClientInfo
		want  bool
	}{
		{"twalker@nicholscontracting.com", client, true},
		{"bids@nicholscontractinginc.com", client, true},
		{"nprice@daltonelectric.net", client, false},
		{"nprice@daltonelectric.net", nil, false},
		{"estimating@nichols.org", &ClientInfo{CompanyName: strp("Nichols")}, true},
		{"no-at-sign", &ClientInfo{CompanyName: strp("Nichols")}, false},
		{"a@b.com", &ClientInfo{CompanyName: strp(" & ,.")}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsClientEmail(tc.email, tc.ci), tc.email)
	}
}

func TestFixWebsite(t *testing.T) {
	assert.Equal(t, "www.daltonelectric.net", FixWebsite("wwwdaltonelectric.net"))
	assert.Equal(t, "WWW.Dalton.net", FixWebsite("WWWDalton.net"))
	assert.Equal(t, "www.dalton.net", FixWebsite("www.dalton.net"))
	assert.Equal(t, "www1.dalton.net", FixWebsite("www1.dalton.net"))
	assert.Equal(t, "dalton.net", FixWebsite("dalton.net"))
}

func decode(t *testing.T, s string) Extraction {
	t.Helper()
	var x Extraction
	require.NoError(t, json.Unmarshal([]byte(s), &x))
	return x
}

func TestRefine(t *testing.T) {
	x := decode(t, validAnswer)
	x.Data.Email = entity.NewField("twalker@nicholscontracting.com", entity.ConfidenceHigh)

	got := Refine(x)
	assert.True(t, got.Data.Email.IsBlank())
	assert.Equal(t, entity.ConfidenceLow, got.Data.Email.Confidence)
	assert.Equal(t, "www.daltonelectric.net", got.Data.Website.String())
	assert.Equal(t, entity.ConfidenceMedium, got.Data.Website.Confidence)
	assert.Equal(t, "Electrical", got.Data.Trade.String())
	assert.Equal(t, entity.ConfidenceHigh, got.Data.Trade.Confidence)

	// input untouched
	assert.Equal(t, "twalker@nicholscontracting.com", x.Data.Email.String())
}

func TestRefineUnmatchedTradeDowngrades(t *testing.T) {
	x := EmptyExtraction()
	x.Data.Trade = entity.NewField("Landscaping", entity.ConfidenceHigh)
	got := Refine(x)
	assert.Equal(t, "Landscaping", got.Data.Trade.String())
	assert.Equal(t, entity.ConfidenceMedium, got.Data.Trade.Confidence)

	x.Data.Trade = entity.NewField("WIRELESS & COMMUNICATIONS", entity.ConfidenceLow)
	got = Refine(x)
	assert.Equal(t, string(constants.Communications), got.Data.Trade.String())
	assert.Equal(t, entity.ConfidenceLow, got.Data.Trade.Confidence)
}

func TestToRecord(t *testing.T) {
	r := Refine(decode(t, validAnswer)).ToRecord("Dalton.pdf", constants.MethodOCR)
	assert.Equal(t, "Dalton Electric", r.CompanyName.String())
	assert.Equal(t, "Dalton.pdf", r.SourceFile.String())
	assert.Equal(t, entity.ConfidenceHigh, r.SourceFile.Confidence)
	assert.Equal(t, constants.MethodOCR, r.ExtractionMethod)
	require.NotNil(t, r.LogicReasoning)
	assert.Equal(t, entity.ConfidenceHigh, r.LogicReasoning.Confidence)
	assert.True(t, r.Email.IsBlank())
	assert.Equal(t, entity.ConfidenceNone, r.Email.Confidence)
}

func TestEmptyExtractionToRecord(t *testing.T) {
	r := EmptyExtraction().ToRecord("scan.pdf", constants.MethodText)
	require.NotNil(t, r.LogicReasoning)
	assert.Equal(t, ReasoningFailed, r.LogicReasoning.String())
	assert.Equal(t, entity.ConfidenceNone, r.LogicReasoning.Confidence)
	for _, f := range []entity.Field{r.CompanyName, r.ContactName, r.Email, r.Phone, r.Website, r.Trade} {
		assert.True(t, f.IsBlank())
		assert.Equal(t, entity.ConfidenceNone, f.Confidence)
	}
}
