package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Customer Phone": "customerphone",
		"customer-phone": "customerphone",
		"CUSTOMER_PHONE": "customerphone",
		"  email  ":      "email",
		"E-Mail":         "email",
	}
	for in, want := range tests {
		require.Equal(t, want, normalizeHeader(in), "input %q", in)
	}
}

func TestCSVReader(t *testing.T) {
	aliases := map[string][]string{
		"name":  {"name", "full_name"},
		"phone": {"phone", "phone_number"},
	}

	t.Run("maps aliases and drops unknown columns", func(t *testing.T) {
		input := "Full Name,PHONE NUMBER,Favorite Color\nAda,123,blue\n"
		r, err := newCSVReader(strings.NewReader(input), aliases)
		require.NoError(t, err)

		data, line, ok := r.Next()
		require.True(t, ok)
		require.Equal(t, 2, line)
		require.Equal(t, map[string]string{"name": "Ada", "phone": "123"}, data)

		_, _, ok = r.Next()
		require.False(t, ok)
	})

	t.Run("skips all-empty rows but keeps line numbers", func(t *testing.T) {
		input := "name,phone\n,\nAda,123\n"
		r, err := newCSVReader(strings.NewReader(input), aliases)
		require.NoError(t, err)

		data, line, ok := r.Next()
		require.True(t, ok)
		require.Equal(t, 3, line)
		require.Equal(t, "Ada", data["name"])
	})

	t.Run("trims cell values", func(t *testing.T) {
		input := "name,phone\n  Ada  ,  123  \n"
		r, err := newCSVReader(strings.NewReader(input), aliases)
		require.NoError(t, err)

		data, _, ok := r.Next()
		require.True(t, ok)
		require.Equal(t, "Ada", data["name"])
		require.Equal(t, "123", data["phone"])
	})

	t.Run("short rows produce partial data", func(t *testing.T) {
		input := "name,phone\nAda\n"
		r, err := newCSVReader(strings.NewReader(input), aliases)
		require.NoError(t, err)

		data, _, ok := r.Next()
		require.True(t, ok)
		require.Equal(t, "Ada", data["name"])
		_, present := data["phone"]
		require.False(t, present)
	})

	t.Run("empty input fails on headers", func(t *testing.T) {
		_, err := newCSVReader(strings.NewReader(""), aliases)
		require.ErrorIs(t, err, ErrUnreadableHeaders)
	})
}
