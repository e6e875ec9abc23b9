package constants

import (
	"strings"
)

type Trade string

const (
	Communications      Trade = "Communications"
	Concrete            Trade = "Concrete"
	Electrical          Trade = "Electrical"
	Plumbing            Trade = "Plumbing"
	Earthwork           Trade = "Earthwork"
	HVAC                Trade = "HVAC"
	GeneralRequirements Trade = "General Requirements"
)

// Uncategorized is the group label for records without a trade.
const Uncategorized = "Uncategorized"

type tradeRule struct {
	trade    Trade
	keywords []string
}

// Order matters: Communications is checked before Electrical so cabling and
// telecom scopes are not filed under Electrical.
var tradeRules = []tradeRule{
	{Communications, []string{
		"communications", "communication", "telecom", "telecommunications", "wireless",
		"cabling", "data cabling", "low voltage", "structured cabling", "network cabling",
		"fiber", "fiber optic",
	}},
	{Concrete, []string{"concrete", "foundation", "slab", "rebar", "reinforcement", "cement", "pouring"}},
	{Electrical, []string{"electrical", "electric", "lighting", "conduit", "power", "wiring"}},
	{Plumbing, []string{
		"plumbing", "plumber", "pipe", "piping", "water heater", "fixture", "drain", "sewer", "water system",
	}},
	{Earthwork, []string{
		"earthwork", "earth work", "grading", "excavation", "excavate", "sitework", "site work",
		"site prep", "site preparation", "dirt work", "clearing", "demolition",
	}},
	{HVAC, []string{
		"hvac", "h.v.a.c", "heating", "ventilation", "air conditioning", "mechanical",
		"air handler", "ductwork", "duct work",
	}},
	{GeneralRequirements, []string{
		"general", "general contractor", "gc", "project management", "coordination",
		"site coordination", "general requirements",
	}},
}

func AllTrades() []Trade {
	out := make([]Trade, len(tradeRules))
	for i, r := range tradeRules {
		out[i] = r.trade
	}
	return out
}

func AsStringSlice() []string {
	trades := AllTrades()
	result := make([]string, len(trades))
	for i, t := range trades {
		result[i] = string(t)
	}
	return result
}

// Canonicalize maps free-form scope text onto a CSI division label.
// The bool is false when nothing matched.
func Canonicalize(input string) (Trade, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}

	if strings.Contains(normalized, "wireless") && strings.Contains(normalized, "communication") {
		return Communications, true
	}

	for _, rule := range tradeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.trade, true
			}
		}
	}
	return "", false
}
