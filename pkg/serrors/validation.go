package serrors

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// ValidationErrors maps a field name to a single human-readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Messages() []string {
	out := make([]string, 0, len(v))
	for _, msg := range v {
		out = append(out, msg)
	}
	return out
}

// FieldLabel converts a Go struct field name into the label used in
// user-facing messages: "CustomerPhone" -> "customer phone".
func FieldLabel(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ProcessValidatorErrors renders validator tag failures as fixed sentences.
// The wording follows the messages our API has always returned.
func ProcessValidatorErrors(errs validator.ValidationErrors) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	label := FieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
