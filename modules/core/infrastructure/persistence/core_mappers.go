package persistence

import (
	"github.com/google/uuid"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/role"
	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
	"github.com/rsmhq/rsm/modules/core/infrastructure/persistence/models"
)

func toDomainPermission(dbRow *models.Permission) (*permission.Permission, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, err
	}
	return &permission.Permission{
		ID:       id,
		Name:     dbRow.Name,
		Resource: permission.Resource(dbRow.Resource),
		Action:   permission.Action(dbRow.Action),
	}, nil
}

func toDomainRole(dbRow *models.Role, permissions []*permission.Permission) role.Role {
	return role.Hydrate(
		dbRow.ID,
		dbRow.Name,
		dbRow.Description,
		permissions,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	)
}

func toDomainUser(dbRow *models.User, roles []role.Role, permissions []*permission.Permission) user.User {
	return user.Hydrate(
		dbRow.ID,
		dbRow.Name,
		dbRow.Email,
		roles,
		permissions,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	)
}
