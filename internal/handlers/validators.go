package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Currency codes are short uppercase symbols ("SOL", "USDC"), not ISO 4217.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// RegisterCustomValidators installs the request-binding validators used by
// the DTO binding tags. It must run once before the router serves traffic.
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
		return currencyCodeRegex.MatchString(fl.Field().String())
	})
}
