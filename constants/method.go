package constants

// ExtractionMethod records how a proposal's text was obtained.
type ExtractionMethod string

// Stable values, surfaced to clients as extraction_method.
const (
	MethodText  ExtractionMethod = "text_extraction"
	MethodOCR   ExtractionMethod = "ocr"
	MethodError ExtractionMethod = "error" // processing failed, record is a placeholder
)

// Tag is the short form handed to the field extractor ("text" | "ocr").
func (m ExtractionMethod) Tag() string {
	if m == MethodOCR {
		return "ocr"
	}
	return "text"
}

// MinTextChars is the trimmed text length below which a PDF is treated as scanned.
const MinTextChars = 100
