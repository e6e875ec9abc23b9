package llm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ravisuresh229/bidbook/constants"
)

const (
	maxPromptChars   = 8000
	keepHeadChars    = 4000
	keepTailChars    = 4000
	truncationMarker = "\n\n[...middle of document truncated...]\n\n"
	contactMarker    = "[EXPLICIT CONTACT FOUND]: "
)

// Contact label patterns, vertical table layout first ("Contact\nNathaniel").
var contactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(estimator|contact)\s*\n\s*([A-Za-z]+(?:\s+[A-Za-z]+)*)`),
	regexp.MustCompile(`(?i)(estimator|contact)(?:\s+name)?[:\s]+([A-Za-z]+(?:\s+[A-Za-z]+)*)`),
}

var unrelatedFilenameWords = []string{"bank", "invoice", "receipt", "statement", "report", "summary"}

// MarkExplicitContact finds the first labelled estimator/contact name and
// repeats it on its own line so the model does not miss table layouts.
func MarkExplicitContact(text string) (string, string) {
	for _, re := range contactPatterns {
		m := re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(text[m[4]:m[5]])
		if len(name) <= 2 {
			continue
		}
		return text[:m[1]] + "\n" + contactMarker + name + "\n" + text[m[1]:], name
	}
	return text, ""
}

// TruncateMiddle keeps the head and tail of long documents, where letterheads
// and signature blocks live. Limits count characters, not bytes.
func TruncateMiddle(text string) string {
	if utf8.RuneCountInString(text) <= maxPromptChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:keepHeadChars]) + truncationMarker + string(runes[len(runes)-keepTailChars:])
}

// FilenameLooksUnrelated flags names like "Five Star Bank.pdf" that say
// nothing about the proposer.
func FilenameLooksUnrelated(filename string) bool {
	lower := strings.ToLower(filename)
	for _, w := range unrelatedFilenameWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// BuildSystemPrompt frames the proposer vs. client distinction and the trade taxonomy.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a forensic pre-construction analyst extracting contact details from subcontractor bid proposals.",
		"Your goal is the PROPOSER (the subcontractor sending the bid), never the CLIENT (the general contractor receiving it).",
		"The company in the header or logo at the top of page 1 is the PROPOSER; do not let footer noise override it.",
		"The company in a 'To:', 'Attn:' or 'Submitted To:' block is the CLIENT. Report it only under client_info.",
		"The person who signed at the bottom is the PROPOSER's contact. Prefer a named signer over 'Estimating Team' or a bare job title.",
		"Text between [FOOTER DATA START] and [FOOTER DATA END] is the page footer; prefer it for phone, email and website.",
		"Phone priority: direct or cell number in the signature block, then the main office number in the header, then any footer number.",
		"Normalize websites by removing spaces (\"www. daltonelectric .net\" -> \"www.daltonelectric.net\"). Never report the client's website.",
		"Never copy a CLIENT email into the proposer email. A null proposer email is better than the client's address.",
		"Normalize the trade to one of: " + strings.Join(constants.AsStringSlice(), ", ") + ".",
		"Companies with Communications, Telecom or Cabling in their name, or headers like 'WIRELESS & COMMUNICATIONS', are Communications, never Electrical.",
		"Always return valid JSON with `reasoning` as the first key, followed by `data`.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the prepared document text with filename and
// extraction-method hints.
func BuildUserPrompt(req ExtractRequest) string {
	text, _ := MarkExplicitContact(req.Text)
	text = TruncateMiddle(text)

	var b strings.Builder
	b.WriteString("Extract contact information from the following subcontractor proposal text.\n\n")
	b.WriteString("Filename: ")
	b.WriteString(req.Filename)
	b.WriteString("\n")
	if FilenameLooksUnrelated(req.Filename) {
		b.WriteString("NOTE: The filename '")
		b.WriteString(req.Filename)
		b.WriteString("' may be unrelated to the company. Rely ONLY on the document contents.\n")
	}
	b.WriteString("Extraction Method: ")
	b.WriteString(strings.ToUpper(string(req.Method)))
	b.WriteString("\n")
	if req.Method == constants.MethodOCR {
		b.WriteString(ocrNote)
	}
	b.WriteString("Proposal text:\n")
	b.WriteString(text)
	b.WriteString("\n\n")
	b.WriteString(answerInstructions)
	return b.String()
}

const ocrNote = `
NOTE: This text came from OCR of a scanned PDF and may contain spacing errors or misread characters.
- The letterhead at the top is usually the clearest part of a scan.
- Footer text may be garbled or split across lines.
- Phone numbers may appear as "301 236 0429" or "301.236.0429".
- Websites may contain stray spaces; remove them.
- Look for "TO:" versus "FROM:" even when spacing is off.

`

const answerInstructions = `Work in three steps and explain them in "reasoning":
STEP 1: identify the header/logo owner (PROPOSER), the 'To:'/'Attn:' block (CLIENT) and the signature block.
STEP 2: extract the PROPOSER's company_name, contact_name, email, phone, website and trade, and the CLIENT's company_name, contact_name and email.
STEP 3: rate each field high, medium, low or none.

Return a JSON object with this EXACT structure:
{
  "reasoning": "...",
  "data": {
    "company_name": {"value": "...", "confidence": "high"},
    "contact_name": {"value": "...", "confidence": "medium"},
    "email": {"value": "...", "confidence": "high"},
    "phone": {"value": "...", "confidence": "low"},
    "website": {"value": "www.companyname.com", "confidence": "medium"},
    "trade": {"value": "Electrical", "confidence": "medium"},
    "client_info": {"company_name": "...", "contact_name": "...", "email": "..."}
  }
}
client_info may be null when no client is named. Use null for values that are not found. Do not include any other text.`
