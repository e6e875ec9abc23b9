package llm

import "github.com/ravisuresh229/bidbook/internal/entity"

// ProposalFieldNames are the keys expected under "data", in prompt order.
var ProposalFieldNames = []string{
	string(entity.FieldCompanyName),
	string(entity.FieldContactName),
	string(entity.FieldEmail),
	string(entity.FieldPhone),
	string(entity.FieldWebsite),
	string(entity.FieldTrade),
}

// BuildProposalJSONSchema returns the JSON-Schema (draft 2020-12 subset) the
// model's answer is validated against after decoding.
func BuildProposalJSONSchema() map[string]any {
	data := map[string]any{}
	for _, name := range ProposalFieldNames {
		data[name] = fieldProp()
	}
	data["client_info"] = map[string]any{
		"type":                 []string{"object", "null"},
		"additionalProperties": false,
		"properties": map[string]any{
			"company_name": nullableString(),
			"contact_name": nullableString(),
			"email":        nullableString(),
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"reasoning", "data"},
		"properties": map[string]any{
			"reasoning": map[string]any{"type": "string"},
			"data": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             ProposalFieldNames,
				"properties":           data,
			},
		},
	}
}

func fieldProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"value", "confidence"},
		"properties": map[string]any{
			"value": nullableString(),
			"confidence": map[string]any{
				"type": "string",
				"enum": []string{"high", "medium", "low", "none"},
			},
		},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}
