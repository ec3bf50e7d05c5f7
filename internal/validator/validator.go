package validator

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// Expose decimal amounts as float64 so the standard numeric tags
	// (gt, gte, ...) apply to them.
	validator.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})

	return validator
}

func decimalAsFloat(field reflect.Value) interface{} {
	amount, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return nil
	}

	value, _ := amount.Float64()

	return value
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must contain at least %s element(s)", err.Param())
	case "unique":
		return "must not contain duplicates"
	case "gt":
		return fmt.Sprintf("must be greater than %s", err.Param())
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
