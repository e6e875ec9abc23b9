package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/extract"
	"github.com/ravisuresh229/bidbook/internal/llm"
)

type Config struct {
	Concurrency     int           // documents in flight, default 4
	DocumentTimeout time.Duration // per document, 0 = none
}

// Document is one uploaded or scanned proposal. Name is what the user sees
// (the original filename); Path is where the bytes live.
type Document struct {
	Name string
	Path string
}

// Processor coordinates text extraction then LLM field extraction for
// proposal PDFs.
type Processor struct {
	Logger *slog.Logger
	Cfg    Config
	Text   extract.TextExtractor
	Fields llm.FieldExtractor
}

func NewProcessor(logger *slog.Logger, cfg Config, text extract.TextExtractor, fields llm.FieldExtractor) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Processor{Logger: logger, Cfg: cfg, Text: text, Fields: fields}
}

// ProcessDocument never fails: any error is folded into an error row so a
// batch always yields one record per document.
func (p *Processor) ProcessDocument(ctx context.Context, doc Document) entity.Record {
	start := time.Now()
	if p.Cfg.DocumentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Cfg.DocumentTimeout)
		defer cancel()
	}

	res, err := p.runText(ctx, doc)
	if err != nil {
		p.Logger.Error("processor.text.failed", "file", doc.Name, "error", err)
		return ErrorRecord(doc.Name, err)
	}

	rec, err := p.runParse(ctx, doc, res)
	if err != nil {
		p.Logger.Error("processor.parse.failed", "file", doc.Name, "error", err)
		return ErrorRecord(doc.Name, err)
	}

	p.Logger.Info("processor.document.ok",
		"file", doc.Name,
		"method", rec.ExtractionMethod,
		"company", rec.CompanyName.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec
}

// ProcessBatch processes docs with bounded parallelism. The result is in
// input order.
func (p *Processor) ProcessBatch(ctx context.Context, docs []Document) entity.RecordSet {
	out := make(entity.RecordSet, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Cfg.Concurrency)
	for i, d := range docs {
		g.Go(func() error {
			out[i] = p.ProcessDocument(gctx, d)
			return nil
		})
	}
	_ = g.Wait()
	return out
}
