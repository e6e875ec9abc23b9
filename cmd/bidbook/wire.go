package main

import (
	"io"
	"log/slog"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/extract"
	"github.com/ravisuresh229/bidbook/internal/llm/openai"
	"github.com/ravisuresh229/bidbook/internal/ocr"
	"github.com/ravisuresh229/bidbook/internal/pipeline"
)

func newLogger(w io.Writer, json, verbose bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if json {
		h = slog.NewJSONHandler(w, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func loadConfig() (*common.Config, error) {
	cfg, err := common.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newTextExtractor(cfg *common.Config, logger *slog.Logger) *extract.OCRAdapter {
	ocrx := ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		PSM:           cfg.OCR.PSM,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	return extract.NewOCRAdapter(ocrx, logger)
}

// newFieldExtractor is graceful when no key is set: the client then returns
// empty extractions and the batch still yields one row per document.
func newFieldExtractor(cfg *common.Config, logger *slog.Logger) *openai.Client {
	c := openai.NewClient(openai.Config{
		APIKey:            cfg.LLM.APIKey,
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	}, logger)
	if c.Configured() {
		logger.Info("OpenAI client initialized", "model", cfg.LLM.Model)
	} else {
		logger.Warn("OpenAI API key not configured, field extraction will return empty records")
	}
	return c
}

func newProcessor(cfg *common.Config, logger *slog.Logger) *pipeline.Processor {
	return pipeline.NewProcessor(logger, pipeline.Config{
		Concurrency:     cfg.Process.Concurrency,
		DocumentTimeout: cfg.Process.DocumentTimeout,
	}, newTextExtractor(cfg, logger), newFieldExtractor(cfg, logger))
}
