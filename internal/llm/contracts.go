package llm

import (
	"context"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// ClientInfo is the recipient block (To:/Attn:) of a proposal. It is only
// used to keep the client's own address out of the proposer fields.
type ClientInfo struct {
	CompanyName *string `json:"company_name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
}

// ProposalData is the proposer (subcontractor) side of the model's answer.
type ProposalData struct {
	CompanyName entity.Field `json:"company_name"`
	ContactName entity.Field `json:"contact_name"`
	Email       entity.Field `json:"email"`
	Phone       entity.Field `json:"phone"`
	Website     entity.Field `json:"website"`
	Trade       entity.Field `json:"trade"`
	ClientInfo  *ClientInfo  `json:"client_info,omitempty"`
}

// Extraction is the normalized shape we want from the LLM: the reasoning
// comes first so the model commits to a layout reading before answering.
type Extraction struct {
	Reasoning string       `json:"reasoning"`
	Data      ProposalData `json:"data"`
}

type ExtractRequest struct {
	Text     string
	Method   constants.ExtractionMethod
	Filename string
}

// FieldExtractor is the interface our pipeline depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (Extraction, []byte /*rawJSON*/, error)
}
