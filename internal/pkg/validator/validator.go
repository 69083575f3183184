package validator

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Email reports whether s is a well-formed email address.
func Email(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// Phone reports whether s is a dialable phone number: an optional leading +
// and 7 to 15 digits, with -, space, and parentheses allowed as separators.
func Phone(s string) bool {
	digits := strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '(', ')':
			return -1
		}
		return r
	}, s)
	if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}
	return validate.Var(digits, "required,number,min=7,max=15") == nil
}

// Fields extracts a field-to-tag map from a binding error, nil when the error
// carries no field-level detail.
func Fields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}
