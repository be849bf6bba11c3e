package customer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
)

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+1 (555) 010-0001": "15550100001",
		"555.010.0002":      "5550100002",
		"  555 010 0003  ":  "5550100003",
		"5550100004":        "5550100004",
		"no digits":         "",
		"":                  "",
	}
	for in, want := range tests {
		require.Equal(t, want, customer.NormalizePhone(in), "input %q", in)
	}
}

func TestCreateDTOValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		dto := &customer.CreateDTO{Name: "  Ada  ", Phone: "+1 555 010 0001", Email: "ada@example.com"}
		errs, ok := dto.Ok()
		require.True(t, ok, "unexpected errors: %v", errs)
		require.Equal(t, "Ada", dto.Name)
		require.Equal(t, "15550100001", dto.Phone)
	})

	t.Run("missing required fields", func(t *testing.T) {
		dto := &customer.CreateDTO{}
		errs, ok := dto.Ok()
		require.False(t, ok)
		require.Contains(t, errs, "Name")
		require.Contains(t, errs, "Phone")
	})

	t.Run("phone with no digits is empty after normalization", func(t *testing.T) {
		dto := &customer.CreateDTO{Name: "Ada", Phone: "n/a"}
		_, ok := dto.Ok()
		require.False(t, ok)
	})

	t.Run("bad email", func(t *testing.T) {
		dto := &customer.CreateDTO{Name: "Ada", Phone: "555", Email: "nope"}
		errs, ok := dto.Ok()
		require.False(t, ok)
		require.Equal(t, "The email field must be a valid email address.", errs["Email"])
	})
}

func TestUpdateDTOApply(t *testing.T) {
	existing := customer.Hydrate(1, "Ada", "5550100001", "ada@example.com", "London", time.Time{}, time.Time{})

	dto := &customer.UpdateDTO{Name: "Ada Lovelace"}
	_, ok := dto.Ok()
	require.True(t, ok)

	updated := dto.Apply(existing)
	require.Equal(t, "Ada Lovelace", updated.Name())
	require.Equal(t, "5550100001", updated.Phone())
	require.Equal(t, "ada@example.com", updated.Email())
	require.Equal(t, uint(1), updated.ID())
}
