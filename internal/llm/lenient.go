package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/ravisuresh229/bidbook/internal/entity"
)

const reasoningMissing = "Reasoning not provided"

// NormalizeAndSanitizeJSON repairs a model answer that failed strict
// validation:
//   - a missing or null field becomes {null, none}
//   - a bare string becomes {value, medium}
//   - unknown confidence tags become none
//   - unknown keys are removed (additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)

	if s, ok := m["reasoning"].(string); !ok || strings.TrimSpace(s) == "" {
		m["reasoning"] = reasoningMissing
		dropped = append(dropped, "reasoning(missing)")
	}

	data, ok := m["data"].(map[string]any)
	if !ok {
		data = map[string]any{}
		dropped = append(dropped, "data(missing)")
	}

	for _, k := range ProposalFieldNames {
		f, note := coerceField(data[k])
		data[k] = f
		if note != "" {
			dropped = append(dropped, k+"("+note+")")
		}
	}

	switch ci := data["client_info"].(type) {
	case nil:
	case map[string]any:
		out := map[string]any{}
		for _, k := range []string{"company_name", "contact_name", "email"} {
			if s, ok := ci[k].(string); ok && strings.TrimSpace(s) != "" {
				out[k] = strings.TrimSpace(s)
			} else {
				out[k] = nil
			}
		}
		data["client_info"] = out
	default:
		delete(data, "client_info")
		dropped = append(dropped, "client_info(type)")
	}

	allowed := append(slices.Clone(ProposalFieldNames), "client_info")
	for k := range maps.Clone(data) {
		if !slices.Contains(allowed, k) {
			delete(data, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}
	for k := range maps.Clone(m) {
		if k != "reasoning" && k != "data" {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}
	m["data"] = data

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// coerceField rebuilds one {value, confidence} pair; note is non-empty when
// the input needed repair.
func coerceField(v any) (map[string]any, string) {
	empty := map[string]any{"value": nil, "confidence": string(entity.ConfidenceNone)}

	switch t := v.(type) {
	case nil:
		return empty, "null"
	case string:
		if strings.TrimSpace(t) == "" {
			return empty, "empty"
		}
		return map[string]any{"value": strings.TrimSpace(t), "confidence": string(entity.ConfidenceMedium)}, "bare"
	case map[string]any:
		out := map[string]any{"value": nil, "confidence": string(entity.ConfidenceNone)}
		note := ""
		switch val := t["value"].(type) {
		case nil:
		case string:
			if s := strings.TrimSpace(val); s != "" {
				out["value"] = s
			}
		case float64:
			// phone numbers occasionally come back as JSON numbers
			out["value"] = strconv.FormatFloat(val, 'f', -1, 64)
			note = "number"
		default:
			note = "type"
		}
		if c, ok := t["confidence"].(string); ok {
			out["confidence"] = string(entity.ParseConfidence(c))
			if string(entity.ParseConfidence(c)) != c {
				note = "confidence"
			}
		} else if t["confidence"] != nil {
			note = "confidence"
		}
		return out, note
	default:
		return empty, "type"
	}
}
