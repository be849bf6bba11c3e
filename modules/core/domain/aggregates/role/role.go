package role

import (
	"time"

	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
)

type Role struct {
	id          uint
	name        string
	description string
	permissions []*permission.Permission
	createdAt   time.Time
	updatedAt   time.Time
}

func New(name, description string, permissions []*permission.Permission) Role {
	return Role{
		name:        name,
		description: description,
		permissions: permissions,
	}
}

func Hydrate(
	id uint,
	name string,
	description string,
	permissions []*permission.Permission,
	createdAt time.Time,
	updatedAt time.Time,
) Role {
	return Role{
		id:          id,
		name:        name,
		description: description,
		permissions: permissions,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r Role) ID() uint                              { return r.id }
func (r Role) Name() string                          { return r.name }
func (r Role) Description() string                   { return r.description }
func (r Role) Permissions() []*permission.Permission { return r.permissions }
func (r Role) CreatedAt() time.Time                  { return r.createdAt }
func (r Role) UpdatedAt() time.Time                  { return r.updatedAt }

func (r Role) Grants(perm *permission.Permission) bool {
	for _, p := range r.permissions {
		if p.Equals(perm) {
			return true
		}
	}
	return false
}
