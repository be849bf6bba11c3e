package workorder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-09-15", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"2026/09/15", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"09/15/2026", time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-09-15 14:30", time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)},
		{"2026-09-15T14:30:00Z", time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := workorder.ParseDate(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		require.True(t, got.Equal(tt.want), "input %q: got %v", tt.in, got)
	}

	_, err := workorder.ParseDate("next tuesday")
	require.Error(t, err)
}

func TestNewWorkOrderDefaults(t *testing.T) {
	wo := workorder.New(7, "  Fix boiler  ", "  leaking  ", "", nil, 3)
	require.Equal(t, "Fix boiler", wo.Title())
	require.Equal(t, "leaking", wo.Description())
	require.Equal(t, workorder.StatusNew, wo.Status())
	require.Equal(t, workorder.PriorityMedium, wo.Priority())
	require.Nil(t, wo.DueAt())
}

func TestCreateDTOValidation(t *testing.T) {
	t.Run("bad due date", func(t *testing.T) {
		dto := &workorder.CreateDTO{CustomerID: 1, Title: "x", DueAt: "soonish"}
		errs, ok := dto.Ok()
		require.False(t, ok)
		require.Equal(t, "The due at field must be a valid date.", errs["DueAt"])
	})

	t.Run("bad priority", func(t *testing.T) {
		dto := &workorder.CreateDTO{CustomerID: 1, Title: "x", Priority: "urgent"}
		errs, ok := dto.Ok()
		require.False(t, ok)
		require.Equal(t, "The selected priority is invalid.", errs["Priority"])
	})

	t.Run("valid", func(t *testing.T) {
		dto := &workorder.CreateDTO{CustomerID: 1, Title: "x", Priority: "high", DueAt: "2026-09-15"}
		_, ok := dto.Ok()
		require.True(t, ok)
		wo := dto.ToEntity(4)
		require.Equal(t, workorder.PriorityHigh, wo.Priority())
		require.NotNil(t, wo.DueAt())
		require.Equal(t, uint(4), wo.CreatedBy())
	})
}
