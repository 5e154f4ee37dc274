package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	latinRe = regexp.MustCompile(`^[a-zA-Z]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// FieldError is the first validation failure found on a struct,
// reported with the json name of the field and the failing rule tag.
type FieldError struct {
	Field string
	Tag   string
}

// Validator wraps go-playground/validator with the custom rules the
// API needs: latin-only names and loose E.164 phone numbers. Field
// names in errors come from json tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("latin", func(fl validator.FieldLevel) bool {
		return latinRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates s and returns the first failing field, or nil when
// validation passes. Struct tags decide the rule order per field, and
// field declaration order decides which field is reported first.
func (va *Validator) Struct(s interface{}) *FieldError {
	err := va.v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &FieldError{Tag: "invalid"}
	}

	first := verrs[0]
	return &FieldError{
		Field: first.Field(),
		Tag:   first.Tag(),
	}
}

// Var validates a single value against the given rule tag.
func (va *Validator) Var(value interface{}, tag string) bool {
	return va.v.Var(value, tag) == nil
}
