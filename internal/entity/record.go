package entity

import (
	"github.com/ravisuresh229/bidbook/constants"
)

// FieldName identifies one of the fixed record fields.
type FieldName string

const (
	FieldCompanyName FieldName = "company_name"
	FieldContactName FieldName = "contact_name"
	FieldEmail       FieldName = "email"
	FieldPhone       FieldName = "phone"
	FieldTrade       FieldName = "trade"
	FieldWebsite     FieldName = "website"
	FieldSourceFile  FieldName = "source_file"
)

// FieldNames lists the schema in display order.
var FieldNames = []FieldName{
	FieldCompanyName,
	FieldContactName,
	FieldEmail,
	FieldPhone,
	FieldTrade,
	FieldWebsite,
	FieldSourceFile,
}

// ParseFieldName reports whether s names a schema field.
func ParseFieldName(s string) (FieldName, bool) {
	for _, n := range FieldNames {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Record is one subcontractor proposal's extracted data.
type Record struct {
	CompanyName Field `json:"company_name"`
	ContactName Field `json:"contact_name"`
	Email       Field `json:"email"`
	Phone       Field `json:"phone"`
	Trade       Field `json:"trade"`
	Website     Field `json:"website"`
	SourceFile  Field `json:"source_file"`

	// Provenance, never scored.
	ExtractionMethod constants.ExtractionMethod `json:"extraction_method,omitempty"`
	LogicReasoning   *Field                     `json:"logic_reasoning,omitempty"`
	Error            string                     `json:"error,omitempty"`
}

// RecordSet is an ordered batch of records addressed by position.
type RecordSet []Record

// EmptyRecord returns a record whose fields are all {null, none}.
func EmptyRecord(sourceFile string) Record {
	r := Record{
		CompanyName: EmptyField(),
		ContactName: EmptyField(),
		Email:       EmptyField(),
		Phone:       EmptyField(),
		Trade:       EmptyField(),
		Website:     EmptyField(),
		SourceFile:  EmptyField(),
	}
	if sourceFile != "" {
		r.SourceFile = NewField(sourceFile, ConfidenceHigh)
	}
	return r
}

func (r *Record) ref(name FieldName) *Field {
	switch name {
	case FieldCompanyName:
		return &r.CompanyName
	case FieldContactName:
		return &r.ContactName
	case FieldEmail:
		return &r.Email
	case FieldPhone:
		return &r.Phone
	case FieldTrade:
		return &r.Trade
	case FieldWebsite:
		return &r.Website
	case FieldSourceFile:
		return &r.SourceFile
	}
	return nil
}

// Get returns the named field; ok is false for names outside the schema.
func (r Record) Get(name FieldName) (Field, bool) {
	p := r.ref(name)
	if p == nil {
		return Field{}, false
	}
	return *p, true
}

// With returns a copy of r with the named field replaced.
func (r Record) With(name FieldName, f Field) (Record, bool) {
	p := r.ref(name)
	if p == nil {
		return r, false
	}
	*p = f
	return r, true
}

// Normalize fills fields missing from a decoded payload with {null, none}
// and drops whitespace-only values.
func (r Record) Normalize() Record {
	for _, n := range FieldNames {
		p := r.ref(n)
		*p = p.normalized()
	}
	return r
}
