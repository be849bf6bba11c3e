package user

import (
	"time"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/role"
	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
)

// User is the acting subject for every core operation. Business rules query
// capability membership through Can; role names never leak into rule logic.
type User interface {
	ID() uint
	Name() string
	Email() string
	Roles() []role.Role
	Permissions() []*permission.Permission
	Can(perm *permission.Permission) bool
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

func New(name, email string, roles []role.Role) User {
	return &user{
		name:  name,
		email: email,
		roles: roles,
	}
}

func Hydrate(
	id uint,
	name string,
	email string,
	roles []role.Role,
	permissions []*permission.Permission,
	createdAt time.Time,
	updatedAt time.Time,
) User {
	return &user{
		id:          id,
		name:        name,
		email:       email,
		roles:       roles,
		permissions: permissions,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

type user struct {
	id          uint
	name        string
	email       string
	roles       []role.Role
	permissions []*permission.Permission
	createdAt   time.Time
	updatedAt   time.Time
}

func (u *user) ID() uint             { return u.id }
func (u *user) Name() string         { return u.name }
func (u *user) Email() string        { return u.email }
func (u *user) Roles() []role.Role   { return u.roles }
func (u *user) CreatedAt() time.Time { return u.createdAt }
func (u *user) UpdatedAt() time.Time { return u.updatedAt }

// Permissions returns direct grants only; role grants are reachable through
// Roles. Can checks both.
func (u *user) Permissions() []*permission.Permission { return u.permissions }

func (u *user) Can(perm *permission.Permission) bool {
	for _, p := range u.permissions {
		if p.Equals(perm) {
			return true
		}
	}
	for _, r := range u.roles {
		if r.Grants(perm) {
			return true
		}
	}
	return false
}
