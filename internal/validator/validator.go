package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var imeiPattern = regexp.MustCompile(`^\d{14,16}$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	v.RegisterValidation("imei", validateIMEI)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validateIMEI accepts 14-16 digit identifiers (IMEI or IMEISV).
func validateIMEI(fl validator.FieldLevel) bool {
	return imeiPattern.MatchString(fl.Field().String())
}
