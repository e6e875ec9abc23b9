package llm

import (
	"strings"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// ReasoningFailed is the reasoning text of an extraction that never reached the model.
const ReasoningFailed = "Extraction failed"

var (
	companyReplacer = strings.NewReplacer(" ", "", "&", "", ",", "", ".", "")
	domainReplacer  = strings.NewReplacer(".com", "", ".net", "", ".org", "")
)

// EmptyExtraction is returned when no model call could be made.
func EmptyExtraction() Extraction {
	return Extraction{
		Reasoning: ReasoningFailed,
		Data: ProposalData{
			CompanyName: entity.EmptyField(),
			ContactName: entity.EmptyField(),
			Email:       entity.EmptyField(),
			Phone:       entity.EmptyField(),
			Website:     entity.EmptyField(),
			Trade:       entity.EmptyField(),
		},
	}
}

// Refine applies the post-extraction corrections: client email rejection,
// website repair and trade canonicalization.
func Refine(x Extraction) Extraction {
	d := &x.Data

	if !d.Email.IsBlank() && IsClientEmail(d.Email.String(), d.ClientInfo) {
		d.Email = entity.Field{Confidence: entity.ConfidenceLow}
	}

	if !d.Website.IsBlank() {
		d.Website = entity.NewField(FixWebsite(d.Website.String()), d.Website.Confidence)
	}

	if !d.Trade.IsBlank() {
		if t, ok := constants.Canonicalize(d.Trade.String()); ok {
			d.Trade = entity.NewField(string(t), d.Trade.Confidence)
		} else if d.Trade.Confidence == entity.ConfidenceHigh {
			d.Trade.Confidence = entity.ConfidenceMedium
		}
	}
	return x
}

// IsClientEmail reports whether email belongs to the proposal's recipient:
// either it is the client's own address or its domain overlaps the client
// company name.
func IsClientEmail(email string, ci *ClientInfo) bool {
	if ci == nil {
		return false
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}

	if ci.Email != nil && email == strings.ToLower(strings.TrimSpace(*ci.Email)) {
		return true
	}

	if ci.CompanyName == nil {
		return false
	}
	company := companyReplacer.Replace(strings.ToLower(*ci.CompanyName))
	_, domain, ok := strings.Cut(email, "@")
	domain = domainReplacer.Replace(domain)
	if !ok || company == "" || domain == "" {
		return false
	}
	return strings.Contains(domain, company) || strings.Contains(company, domain)
}

// FixWebsite inserts the dot OCR tends to drop after a leading "www".
func FixWebsite(url string) string {
	if len(url) < 4 || !strings.EqualFold(url[:3], "www") || !isASCIILetter(url[3]) {
		return url
	}
	return url[:3] + "." + url[3:]
}

func isASCIILetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// ToRecord flattens the proposer data into a review record. Client details
// are dropped.
func (x Extraction) ToRecord(sourceFile string, method constants.ExtractionMethod) entity.Record {
	r := entity.EmptyRecord(sourceFile)
	r.CompanyName = x.Data.CompanyName
	r.ContactName = x.Data.ContactName
	r.Email = x.Data.Email
	r.Phone = x.Data.Phone
	r.Website = x.Data.Website
	r.Trade = x.Data.Trade
	r.ExtractionMethod = method

	reasoning := strings.TrimSpace(x.Reasoning)
	conf := entity.ConfidenceHigh
	switch reasoning {
	case "":
		reasoning = reasoningMissing
	case ReasoningFailed:
		conf = entity.ConfidenceNone
	}
	lr := entity.NewField(reasoning, conf)
	r.LogicReasoning = &lr
	return r.Normalize()
}
