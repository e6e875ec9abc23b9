package extract

import (
	"context"
	"time"

	"github.com/ravisuresh229/bidbook/constants"
)

// TextExtractor is Stage 1: proposal PDF -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   constants.ExtractionMethod // text_extraction | ocr
	Language string
	Duration time.Duration
	Warnings []string
}
