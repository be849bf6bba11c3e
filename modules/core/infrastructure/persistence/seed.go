package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
	"github.com/rsmhq/rsm/pkg/application"
)

// SeedUser describes one bootstrap account. Tokens are static API keys meant
// for local and staging setups; production accounts are provisioned out of
// band.
type SeedUser struct {
	Name  string
	Email string
	Token string
	Role  string
}

// SeedAccessControl makes the permission catalogue, the named permission
// sets and the bootstrap users match the given definitions. Re-running is
// safe: permissions are upserted, set membership is rewritten, users are
// created only when missing.
func SeedAccessControl(
	ctx context.Context,
	app application.Application,
	perms []*permission.Permission,
	sets map[string][]*permission.Permission,
	users []SeedUser,
) error {
	pool := app.DB()

	for _, p := range perms {
		if _, err := pool.Exec(ctx, `
            INSERT INTO permissions (id, name, resource, action)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, resource = EXCLUDED.resource, action = EXCLUDED.action`,
			p.ID, p.Name, string(p.Resource), string(p.Action),
		); err != nil {
			return errors.Wrap(err, "failed to seed permission "+p.Name)
		}
	}

	for name, members := range sets {
		var roleID uint
		if err := pool.QueryRow(ctx, `
            INSERT INTO roles (name, description)
            VALUES ($1, '')
            ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
            RETURNING id`,
			name,
		).Scan(&roleID); err != nil {
			return errors.Wrap(err, "failed to seed role "+name)
		}
		if _, err := pool.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, roleID); err != nil {
			return errors.Wrap(err, "failed to reset role permissions for "+name)
		}
		for _, p := range members {
			if _, err := pool.Exec(ctx, `
                INSERT INTO role_permissions (role_id, permission_id)
                VALUES ($1, $2)
                ON CONFLICT DO NOTHING`,
				roleID, p.ID,
			); err != nil {
				return errors.Wrap(err, "failed to grant "+p.Name+" to "+name)
			}
		}
	}

	for _, u := range users {
		var userID uint
		if err := pool.QueryRow(ctx, `
            INSERT INTO users (name, email, token)
            VALUES ($1, $2, $3)
            ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
            RETURNING id`,
			u.Name, u.Email, u.Token,
		).Scan(&userID); err != nil {
			return errors.Wrap(err, "failed to seed user "+u.Email)
		}
		if _, err := pool.Exec(ctx, `
            INSERT INTO user_roles (user_id, role_id)
            SELECT $1, id FROM roles WHERE name = $2
            ON CONFLICT DO NOTHING`,
			userID, u.Role,
		); err != nil {
			return errors.Wrap(err, "failed to assign role "+u.Role+" to "+u.Email)
		}
	}

	return nil
}
