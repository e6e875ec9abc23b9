package ocr

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

	reContactLabel = regexp.MustCompile(`(?i)Contact:\s*([A-Za-z]+(?:\s+[A-Za-z]+)*)`)
)

// Normalize folds compatibility characters (ligatures, full-width forms) and
// collapses noisy whitespace while keeping line breaks.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// PreprocessContacts rewrites "Contact: Name" as "Contact Name: Name" so
// table-style contact cells read as labelled names.
func PreprocessContacts(s string) string {
	return reContactLabel.ReplaceAllString(s, "Contact Name: $1")
}
