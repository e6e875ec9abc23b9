package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ravisuresh229/bidbook/internal/llm"
)

// ErrNoChoices is returned when the completion carries no message.
var ErrNoChoices = errors.New("no choices in openai response")

// ExtractFields implements llm.FieldExtractor using text-only chat/completions
// in JSON mode. Without an API key it returns the empty extraction instead of
// calling out.
func (c *Client) ExtractFields(ctx context.Context, req llm.ExtractRequest) (llm.Extraction, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	if !c.Configured() {
		c.logger.Warn("llm.extract.no_api_key", "req_id", rid, "filename", req.Filename)
		return llm.EmptyExtraction(), nil, nil
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.Text),
		"method", req.Method,
		"filename", req.Filename,
	)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return llm.Extraction{}, nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, rid, c.logger)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Extraction{}, nil, fmt.Errorf("openai: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Extraction{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.Extraction{}, raw, ErrNoChoices
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	content, err = c.conform(rid, content)
	if err != nil {
		return llm.Extraction{}, content, err
	}

	var out llm.Extraction
	if err := json.Unmarshal(content, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return llm.Extraction{}, content, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"company", out.Data.CompanyName.String(),
		"trade", out.Data.Trade.String(),
		"has_email", !out.Data.Email.IsBlank(),
		"has_client", out.Data.ClientInfo != nil,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, content, nil
}

// conform validates strictly first, then retries once after the lenient sanitize.
func (c *Client) conform(rid string, content []byte) ([]byte, error) {
	schema := llm.BuildProposalJSONSchema()
	err := llm.ValidateJSONAgainstSchema(schema, content)
	if err == nil {
		return content, nil
	}

	cleaned, dropped, sErr := llm.NormalizeAndSanitizeJSON(content, c.logger)
	if sErr != nil {
		c.logger.Error("llm.extract.sanitize_failed", "req_id", rid, "error", sErr)
		return content, fmt.Errorf("sanitize failed: %w", sErr)
	}
	if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
		c.logger.Error("llm.extract.schema_validation_failed", "req_id", rid, "error", vErr)
		return cleaned, fmt.Errorf("schema validation failed: %w", vErr)
	}
	c.logger.Warn("llm.extract.lenient_sanitize_applied", "req_id", rid, "dropped", dropped)
	return cleaned, nil
}
