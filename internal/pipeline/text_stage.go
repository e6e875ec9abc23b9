package pipeline

import (
	"context"

	"github.com/ravisuresh229/bidbook/internal/extract"
)

// runText is Stage 1: PDF -> normalized text.
func (p *Processor) runText(ctx context.Context, doc Document) (extract.TextExtractionResult, error) {
	res, err := p.Text.Extract(ctx, doc.Path)
	if err != nil {
		return res, &StageError{Stage: StageText, Err: err}
	}
	p.Logger.Debug("processor.text.ok",
		"file", doc.Name,
		"method", res.Method,
		"pages", res.Pages,
		"text_len", len(res.Text),
		"warnings", len(res.Warnings),
	)
	return res, nil
}
