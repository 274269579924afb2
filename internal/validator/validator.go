// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// materialIconRegex matches Google Material Symbol names, e.g.
// "shopping_cart" or "local_gas_station".
var materialIconRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,99}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("material_icon", validateMaterialIcon)
		_ = v.RegisterValidation("money", validateMoney)
	}
}

func validateMaterialIcon(fl validator.FieldLevel) bool {
	return materialIconRegex.MatchString(fl.Field().String())
}

// validateMoney accepts positive decimal strings with at most two
// fractional digits, e.g. "45" or "32.75". Expenses must be at least 0.01.
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if d.Exponent() < -2 {
		return false
	}
	return d.GreaterThanOrEqual(decimal.RequireFromString("0.01"))
}
