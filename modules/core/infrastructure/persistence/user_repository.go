package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/role"
	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
	"github.com/rsmhq/rsm/modules/core/infrastructure/persistence/models"
	"github.com/rsmhq/rsm/pkg/composables"
)

const (
	userFindQuery = `
        SELECT
            u.id,
            u.name,
            u.email,
            u.token,
            u.created_at,
            u.updated_at
        FROM users u`

	userRolesQuery = `
        SELECT
            r.id,
            r.name,
            r.description,
            r.created_at,
            r.updated_at
        FROM user_roles ur LEFT JOIN roles r ON ur.role_id = r.id WHERE ur.user_id = $1`

	userRolePermissionsQuery = `
        SELECT p.id, p.name, p.resource, p.action
        FROM role_permissions rp LEFT JOIN permissions p ON rp.permission_id = p.id WHERE rp.role_id = $1`

	userPermissionsQuery = `
        SELECT p.id, p.name, p.resource, p.action
        FROM user_permissions up LEFT JOIN permissions p ON up.permission_id = p.id WHERE up.user_id = $1`
)

type PgUserRepository struct{}

func NewUserRepository() user.Repository {
	return &PgUserRepository{}
}

func (g *PgUserRepository) GetByID(ctx context.Context, id uint) (user.User, error) {
	return g.getOne(ctx, userFindQuery+` WHERE u.id = $1`, id)
}

func (g *PgUserRepository) GetByToken(ctx context.Context, token string) (user.User, error) {
	return g.getOne(ctx, userFindQuery+` WHERE u.token = $1`, token)
}

func (g *PgUserRepository) getOne(ctx context.Context, query string, arg any) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var row models.User
	if err := tx.QueryRow(ctx, query, arg).Scan(
		&row.ID,
		&row.Name,
		&row.Email,
		&row.Token,
		&row.CreatedAt,
		&row.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to query user")
	}

	roles, err := g.userRoles(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	permissions, err := g.queryPermissions(ctx, userPermissionsQuery, row.ID)
	if err != nil {
		return nil, err
	}

	return toDomainUser(&row, roles, permissions), nil
}

func (g *PgUserRepository) userRoles(ctx context.Context, userID uint) ([]role.Role, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, userRolesQuery, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query user roles")
	}
	defer rows.Close()

	var dbRoles []models.Role
	for rows.Next() {
		var r models.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan role")
		}
		dbRoles = append(dbRoles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]role.Role, 0, len(dbRoles))
	for i := range dbRoles {
		perms, err := g.queryPermissions(ctx, userRolePermissionsQuery, dbRoles[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toDomainRole(&dbRoles[i], perms))
	}
	return out, nil
}

func (g *PgUserRepository) queryPermissions(ctx context.Context, query string, arg any) ([]*permission.Permission, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query permissions")
	}
	defer rows.Close()

	var out []*permission.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Resource, &p.Action); err != nil {
			return nil, errors.Wrap(err, "failed to scan permission")
		}
		perm, err := toDomainPermission(&p)
		if err != nil {
			return nil, err
		}
		out = append(out, perm)
	}
	return out, rows.Err()
}
