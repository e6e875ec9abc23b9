package pipeline

import (
	"context"

	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/extract"
	"github.com/ravisuresh229/bidbook/internal/llm"
)

// runParse is Stage 2: text -> refined record.
func (p *Processor) runParse(ctx context.Context, doc Document, res extract.TextExtractionResult) (entity.Record, error) {
	req := llm.ExtractRequest{
		Text:     res.Text,
		Method:   res.Method,
		Filename: doc.Name,
	}

	x, raw, err := p.Fields.ExtractFields(ctx, req)
	if err != nil {
		return entity.Record{}, &StageError{Stage: StageFields, Err: err}
	}

	rec := llm.Refine(x).ToRecord(doc.Name, res.Method)
	p.Logger.Debug("processor.parse.ok",
		"file", doc.Name,
		"raw_bytes", len(raw),
		"email_rejected", !x.Data.Email.IsBlank() && rec.Email.IsBlank(),
	)
	return rec, nil
}
