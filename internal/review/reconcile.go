package review

import (
	"fmt"

	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
)

// ApplyEdit replaces one field with the user's value and marks it high
// confidence, including when the value is cleared. Other fields are untouched.
func ApplyEdit(r entity.Record, field string, value string) (entity.Record, error) {
	name, ok := entity.ParseFieldName(field)
	if !ok {
		return r, &common.InvalidFieldError{Field: field}
	}
	out, _ := r.With(name, entity.NewField(value, entity.ConfidenceHigh))
	return out, nil
}

// ValidateEdit is the soft format gate run before ApplyEdit. Blank values
// always pass; failures wrap common.ErrValidationRejected.
func ValidateEdit(field entity.FieldName, value string) error {
	v := common.NewValidator()
	switch field {
	case entity.FieldEmail:
		v.Field(string(field), value, common.Email)
	case entity.FieldPhone:
		v.Field(string(field), value, common.USPhone)
	}
	if v.HasErrors() {
		return fmt.Errorf("%w: %s", common.ErrValidationRejected, v.ErrorMessage())
	}
	return nil
}
