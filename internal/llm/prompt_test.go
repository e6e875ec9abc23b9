package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/ravisuresh229/bidbook/constants"
)

func TestMarkExplicitContact(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"vertical table", "Estimator\nKenny D Moore\n301-555-0100", "Kenny D Moore"},
		{"labelled", "Contact Name: Nathaniel\n301-236-0429", "Nathaniel"},
		{"horizontal", "contact: Bobby Suastegui", "Bobby Suastegui"},
		{"too short", "Contact: Al", ""},
		{"absent", "Dalton Electric\nwww.daltonelectric.net", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, name := MarkExplicitContact(tc.in)
			assert.Equal(t, tc.want, name)
			if tc.want == "" {
				assert.Equal(t, tc.in, out)
				return
			}
			assert.Contains(t, out, "\n[EXPLICIT CONTACT FOUND]: "+tc.want+"\n")
		})
	}
}

func TestMarkExplicitContactInsertsAfterMatch(t *testing.T) {
	out, _ := MarkExplicitContact("Contact: Nathaniel\n301-236-0429")
	assert.Equal(t, "Contact: Nathaniel\n[EXPLICIT CONTACT FOUND]: Nathaniel\n\n301-236-0429", out)
}

func TestTruncateMiddle(t *testing.T) {
	short := strings.Repeat("a", 8000)
	assert.Equal(t, short, TruncateMiddle(short))

	long := strings.Repeat("h", 4000) + strings.Repeat("x", 1000) + strings.Repeat("t", 4000)
	out := TruncateMiddle(long)
	assert.True(t, strings.HasPrefix(out, strings.Repeat("h", 4000)+"\n\n[...middle of document truncated...]\n\n"))
	assert.True(t, strings.HasSuffix(out, strings.Repeat("t", 4000)))
	assert.NotContains(t, out, "x")
}

func TestTruncateMiddleCountsCharacters(t *testing.T) {
	// 3000 characters, 9000 bytes
	dashes := strings.Repeat("—", 3000)
	assert.Equal(t, dashes, TruncateMiddle(dashes))

	long := strings.Repeat("é", 4000) + strings.Repeat("ü", 10) + strings.Repeat("ñ", 4000)
	out := TruncateMiddle(long)
	assert.True(t, utf8.ValidString(out))
	assert.True(t, strings.HasPrefix(out, strings.Repeat("é", 4000)+"\n\n[...middle"))
	assert.True(t, strings.HasSuffix(out, "]\n\n"+strings.Repeat("ñ", 4000)))
	assert.NotContains(t, out, "ü")
}

func TestFilenameLooksUnrelated(t *testing.T) {
	assert.True(t, FilenameLooksUnrelated("Five Star Bank.pdf"))
	assert.True(t, FilenameLooksUnrelated("Q3_SUMMARY.pdf"))
	assert.False(t, FilenameLooksUnrelated("Dalton Electric Proposal.pdf"))
}

func TestBuildUserPrompt(t *testing.T) {
	p := BuildUserPrompt(ExtractRequest{
		Text:     "Contact: Nathaniel",
		Method:   constants.MethodOCR,
		Filename: "bank statement.pdf",
	})
	assert.Contains(t, p, "Filename: bank statement.pdf")
	assert.Contains(t, p, "may be unrelated to the company")
	assert.Contains(t, p, "Extraction Method: OCR")
	assert.Contains(t, p, "scanned PDF")
	assert.Contains(t, p, "[EXPLICIT CONTACT FOUND]: Nathaniel")

	p = BuildUserPrompt(ExtractRequest{Text: "x", Method: constants.MethodText, Filename: "dalton.pdf"})
	assert.Contains(t, p, "Extraction Method: TEXT_EXTRACTION")
	assert.NotContains(t, p, "scanned PDF")
	assert.NotContains(t, p, "may be unrelated")
}

func TestBuildSystemPromptListsTrades(t *testing.T) {
	p := BuildSystemPrompt()
	for _, tr := range constants.AllTrades() {
		assert.Contains(t, p, string(tr))
	}
}
