package pipeline

import (
	"errors"
	"fmt"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/ocr"
)

type Stage string

const (
	StageText   Stage = "text"
	StageFields Stage = "fields"
)

// StageError records which stage of the processor failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

const (
	msgOCRFailed  = "Failed to process scanned PDF. Please ensure the file is readable."
	msgLLMFailed  = "Failed to extract data. Please check your API key and try again."
	msgInvalidPDF = "Invalid or corrupted PDF file."
)

// FriendlyMessage turns a processing error into the text shown on an error row.
func FriendlyMessage(err error) string {
	var se *StageError
	switch {
	case errors.Is(err, ocr.ErrOCRFailed):
		return msgOCRFailed
	case errors.As(err, &se) && se.Stage == StageFields:
		return msgLLMFailed
	case errors.Is(err, ocr.ErrUnreadable), errors.Is(err, ocr.ErrUnsupported):
		return msgInvalidPDF
	default:
		return "Processing failed: " + err.Error()
	}
}

// ErrorRecord is the placeholder row for a document that could not be processed.
func ErrorRecord(name string, err error) entity.Record {
	r := entity.EmptyRecord(name)
	r.ExtractionMethod = constants.MethodError
	r.Error = FriendlyMessage(err)
	return r
}
