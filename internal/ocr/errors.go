package ocr

import "errors"

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrUnreadable  = errors.New("invalid or corrupted pdf")
	ErrOCRFailed   = errors.New("ocr failed")
)
