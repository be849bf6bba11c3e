package serrors_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/pkg/serrors"
)

func TestFieldLabel(t *testing.T) {
	tests := map[string]string{
		"Name":          "name",
		"CustomerPhone": "customer phone",
		"DueAt":         "due at",
		"Email":         "email",
	}
	for in, want := range tests {
		require.Equal(t, want, serrors.FieldLabel(in), "input %q", in)
	}
}

func TestProcessValidatorErrors(t *testing.T) {
	type form struct {
		Name     string `validate:"required,max=255"`
		Email    string `validate:"omitempty,email"`
		Priority string `validate:"omitempty,oneof=low medium high"`
	}

	v := validator.New()
	err := v.Struct(form{Email: "nope", Priority: "urgent"})
	require.Error(t, err)

	errs := serrors.ProcessValidatorErrors(err.(validator.ValidationErrors))
	require.Equal(t, "The name field is required.", errs["Name"])
	require.Equal(t, "The email field must be a valid email address.", errs["Email"])
	require.Equal(t, "The selected priority is invalid.", errs["Priority"])
}

func TestBaseError(t *testing.T) {
	err := serrors.NewError("CRM_VALIDATION", "The selected status is invalid.")
	require.Equal(t, "The selected status is invalid.", err.Error())
	require.Equal(t, "CRM_VALIDATION", serrors.Code(err))
	require.Equal(t, "", serrors.Code(nil))
}
