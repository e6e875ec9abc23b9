package review

import (
	"github.com/ravisuresh229/bidbook/internal/entity"
)

type recordOpt func(*entity.Record)

func withCompany(v string) recordOpt {
	return func(r *entity.Record) { r.CompanyName = entity.NewField(v, entity.ConfidenceHigh) }
}

func withContact(v string) recordOpt {
	return func(r *entity.Record) { r.ContactName = entity.NewField(v, entity.ConfidenceMedium) }
}

func withEmail(v string) recordOpt {
	return func(r *entity.Record) { r.Email = entity.NewField(v, entity.ConfidenceHigh) }
}

func withPhone(v string) recordOpt {
	return func(r *entity.Record) { r.Phone = entity.NewField(v, entity.ConfidenceMedium) }
}

func withTrade(v string) recordOpt {
	return func(r *entity.Record) { r.Trade = entity.NewField(v, entity.ConfidenceHigh) }
}

func newRecord(opts ...recordOpt) entity.Record {
	r := entity.EmptyRecord("proposal.pdf")
	for _, o := range opts {
		o(&r)
	}
	return r
}
