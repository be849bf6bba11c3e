package user_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/role"
	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
)

var (
	permRead = &permission.Permission{
		ID:       uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Name:     "read-things",
		Resource: "thing",
		Action:   permission.ActionView,
	}
	permWrite = &permission.Permission{
		ID:       uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Name:     "write-things",
		Resource: "thing",
		Action:   permission.ActionEdit,
	}
)

func TestUserCan(t *testing.T) {
	t.Run("grants through a role", func(t *testing.T) {
		u := user.New("a", "a@example.com", []role.Role{
			role.New("reader", "", []*permission.Permission{permRead}),
		})
		require.True(t, u.Can(permRead))
		require.False(t, u.Can(permWrite))
	})

	t.Run("grants through a direct permission", func(t *testing.T) {
		u := user.Hydrate(1, "a", "a@example.com", nil, []*permission.Permission{permWrite}, time.Time{}, time.Time{})
		require.True(t, u.Can(permWrite))
		require.False(t, u.Can(permRead))
	})

	t.Run("matches by name not pointer", func(t *testing.T) {
		clone := &permission.Permission{Name: permRead.Name}
		u := user.New("a", "a@example.com", []role.Role{
			role.New("reader", "", []*permission.Permission{permRead}),
		})
		require.True(t, u.Can(clone))
	})

	t.Run("no grants", func(t *testing.T) {
		u := user.New("a", "a@example.com", nil)
		require.False(t, u.Can(permRead))
	})
}
