package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want Trade
		ok   bool
	}{
		{"Electrical Installation", Electrical, true},
		{"WIRELESS & COMMUNICATIONS", Communications, true},
		{"Low Voltage / Data", Communications, true},
		{"Electrical and fiber optic cabling", Communications, true},
		{"Slab on grade", Concrete, true},
		{"Site Prep", Earthwork, true},
		{"HVAC", HVAC, true},
		{"Mechanical", HVAC, true},
		{"Water heater replacement", Plumbing, true},
		{"General Contractor", GeneralRequirements, true},
		{"Landscaping", "", false},
		{"   ", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := Canonicalize(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllowedExt(t *testing.T) {
	assert.True(t, AllowedExt(".PDF"))
	assert.True(t, AllowedExt("pdf"))
	assert.False(t, AllowedExt(".png"))
}

func TestMethodTag(t *testing.T) {
	assert.Equal(t, "ocr", MethodOCR.Tag())
	assert.Equal(t, "text", MethodText.Tag())
}
