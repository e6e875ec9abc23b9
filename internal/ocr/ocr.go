package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ravisuresh229/bidbook/constants"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned PDFs, default 300
	PSM           int // 6 treats each page as one uniform block of text
	MaxPages      int // 0 = no limit
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   constants.ExtractionMethod
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg       Config
	runner    Runner
	readLayer func(path string) (textLayer, error)
	logger    *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, readLayer: readTextLayer, logger: logger}
}

// Extract reads the PDF's text layer and falls back to OCR when the layer is
// too thin to be a born-digital document.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.AllowedExt(ext) {
		e.logger.Error("ocr.unsupported_extension", "path", path, "extension", ext)
		return ExtractionResult{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	res, err := e.extractPDF(ctx, path)
	res.Duration = time.Since(start)
	if err != nil {
		e.logger.Error("ocr.extract.failed", "path", path, "method", res.Method, "error", err,
			"elapsed_ms", res.Duration.Milliseconds())
		return res, err
	}
	e.logger.Info("ocr.extract.ok", "path", path, "method", res.Method, "pages", res.Pages,
		"text_len", len(res.Text), "elapsed_ms", res.Duration.Milliseconds())
	return res, nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	var warns []string

	text, pages, w, err := e.textFromLayer(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		warns = append(warns, err.Error())
		e.logger.Warn("ocr.text_layer.failed", "path", path, "error", err)
	}
	text = PreprocessContacts(Normalize(text))

	if len(strings.TrimSpace(text)) >= constants.MinTextChars {
		return ExtractionResult{
			Text:     text,
			Pages:    pages,
			Method:   constants.MethodText,
			Language: e.cfg.TesseractLang,
			Warnings: warns,
		}, nil
	}

	e.logger.Info("ocr.fallback", "path", path, "text_len", len(strings.TrimSpace(text)))
	ocrText, ocrPages, w, err := e.pdfToOCR(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		return ExtractionResult{Method: constants.MethodOCR, Warnings: warns}, fmt.Errorf("%w: %v", ErrOCRFailed, err)
	}
	return ExtractionResult{
		Text:     PreprocessContacts(Normalize(ocrText)),
		Pages:    ocrPages,
		Method:   constants.MethodOCR,
		Language: e.cfg.TesseractLang,
		Warnings: warns,
	}, nil
}

// textFromLayer prefers the in-process reader, which also yields the footer
// band, and shells out to pdftotext only when that reader fails.
func (e *Extractor) textFromLayer(ctx context.Context, path string) (string, int, []string, error) {
	layer, err := e.readLayer(path)
	if err == nil {
		warns := e.ocrMissingFooters(ctx, path, &layer)
		return layer.render(), layer.Pages, warns, nil
	}
	e.logger.Debug("ocr.text_layer.pure_go_failed", "path", path, "error", err)

	text, pages, _, ptErr := e.pdfToText(ctx, path)
	if ptErr != nil {
		return "", 0, nil, fmt.Errorf("%w: %v; pdftotext: %v", ErrUnreadable, err, ptErr)
	}
	return text, pages, nil, nil
}
