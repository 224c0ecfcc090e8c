// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"zadeet/internal/period"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("category_kind", validateCategoryKind)
		_ = v.RegisterValidation("date_preset", validateDatePreset)
		_ = v.RegisterValidation("period_id", validatePeriodID)
	}
}

// decimalValue exposes decimals to numeric tags such as gt=0 and gte=0.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateCategoryKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateDatePreset(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "current_month", "last_month", "last_3_months", "all":
		return true
	}
	return false
}

func validatePeriodID(fl validator.FieldLevel) bool {
	return period.Valid(fl.Field().String())
}
