// Package validation wraps go-playground/validator with the domain rules the
// API needs (CPF, Brazilian UF, CEP) and translates failures into the apperr
// taxonomy with per-field machine-readable codes.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alignwork/api/internal/platform/apperr"
)

var nonDigits = regexp.MustCompile(`\D`)

// Digits strips every non-digit rune. CPF, CEP, and phone values are
// normalized through this before storage or comparison.
func Digits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// BrazilUFs is the closed set of two-letter state codes.
var BrazilUFs = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true, "CE": true,
	"DF": true, "ES": true, "GO": true, "MA": true, "MT": true, "MS": true,
	"MG": true, "PA": true, "PB": true, "PR": true, "PE": true, "PI": true,
	"RJ": true, "RN": true, "RS": true, "RO": true, "RR": true, "SC": true,
	"SP": true, "SE": true, "TO": true,
}

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields by their json tag so error paths match request bodies.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	validate.RegisterValidation("cpf", validCPF)
	validate.RegisterValidation("uf", validUF)
	validate.RegisterValidation("cep", validCEP)
	validate.RegisterValidation("digits_min", digitsMin)
}

// validCPF accepts masked or bare input, requiring exactly 11 digits that are
// not all identical. Check-digit verification is intentionally out of scope;
// the stored value is the normalized digit string.
func validCPF(fl validator.FieldLevel) bool {
	digits := Digits(fl.Field().String())
	if len(digits) != 11 {
		return false
	}
	return strings.Count(digits, digits[:1]) != 11
}

func validUF(fl validator.FieldLevel) bool {
	return BrazilUFs[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
}

// validCEP accepts masked or bare input with exactly 8 digits.
func validCEP(fl validator.FieldLevel) bool {
	return len(Digits(fl.Field().String())) == 8
}

// digits_min=N requires at least N digits after stripping the mask.
func digitsMin(fl validator.FieldLevel) bool {
	min := 0
	fmt.Sscanf(fl.Param(), "%d", &min)
	return len(Digits(fl.Field().String())) >= min
}

var messages = map[string]string{
	"required":   "is required",
	"min":        "is too short",
	"max":        "is too long",
	"email":      "must be a valid email address",
	"oneof":      "must be one of the allowed values",
	"cpf":        "must be a valid CPF with 11 digits",
	"uf":         "must be a valid Brazilian UF",
	"cep":        "must have exactly 8 digits",
	"digits_min": "does not have enough digits",
}

// Struct validates s and returns a KindValidation apperr carrying one entry
// per failed field, coded by the failed rule.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		fields = append(fields, apperr.FieldError{
			Field: fe.Field(),
			Code:  fe.Tag(),
			Msg:   fmt.Sprintf("%s %s", fe.Field(), msg),
		})
	}
	return apperr.Validation(fields...)
}
