package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/infrastructure/persistence/models"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/repo"
)

const (
	customerFindQuery = `
        SELECT
            c.id,
            c.name,
            c.phone,
            c.email,
            c.address,
            c.created_at,
            c.updated_at
        FROM customers c`

	customerCountQuery = `SELECT COUNT(c.id) FROM customers c`

	customerInsertQuery = `
        INSERT INTO customers (name, phone, email, address)
        VALUES ($1, $2, $3, $4)
        RETURNING id, name, phone, email, address, created_at, updated_at`

	customerUpdateQuery = `
        UPDATE customers
        SET name = $1, phone = $2, email = $3, address = $4, updated_at = now()
        WHERE id = $5
        RETURNING id, name, phone, email, address, created_at, updated_at`

	customerExistsByPhoneQuery = `SELECT EXISTS (SELECT 1 FROM customers WHERE phone = $1)`

	customerDeleteQuery = `DELETE FROM customers WHERE id = $1`
)

type PgCustomerRepository struct{}

func NewCustomerRepository() customer.Repository {
	return &PgCustomerRepository{}
}

func (g *PgCustomerRepository) buildFilters(params *customer.FindParams) ([]string, []interface{}) {
	var where []string
	var args []interface{}

	if params.Q != "" {
		index := len(args) + 1
		where = append(
			where,
			fmt.Sprintf("(c.name ILIKE $%d OR c.phone ILIKE $%d OR c.email ILIKE $%d)", index, index, index),
		)
		args = append(args, "%"+params.Q+"%")
	}

	return where, args
}

func (g *PgCustomerRepository) GetPaginated(ctx context.Context, params *customer.FindParams) ([]customer.Customer, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := g.buildFilters(params)

	var total int64
	countQuery := repo.Join(customerCountQuery, repo.JoinWhere(where...))
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count customers")
	}

	query := repo.Join(
		customerFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY c.id DESC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to query customers")
	}
	defer rows.Close()

	var out []customer.Customer
	for rows.Next() {
		row, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainCustomer(row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to iterate customers")
	}
	return out, total, nil
}

func (g *PgCustomerRepository) GetByID(ctx context.Context, id uint) (customer.Customer, error) {
	return g.getOne(ctx, customerFindQuery+` WHERE c.id = $1`, id)
}

func (g *PgCustomerRepository) GetByPhone(ctx context.Context, phone string) (customer.Customer, error) {
	return g.getOne(ctx, customerFindQuery+` WHERE c.phone = $1`, customer.NormalizePhone(phone))
}

func (g *PgCustomerRepository) getOne(ctx context.Context, query string, arg any) (customer.Customer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return customer.Customer{}, err
	}

	row, err := scanCustomer(tx.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrNotFound
		}
		return customer.Customer{}, err
	}
	return toDomainCustomer(row), nil
}

func (g *PgCustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, customerExistsByPhoneQuery, customer.NormalizePhone(phone)).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check phone")
	}
	return exists, nil
}

func (g *PgCustomerRepository) Create(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return customer.Customer{}, err
	}

	row, err := scanCustomer(tx.QueryRow(
		ctx,
		customerInsertQuery,
		c.Name(),
		c.Phone(),
		c.Email(),
		c.Address(),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return customer.Customer{}, customer.ErrPhoneTaken
		}
		return customer.Customer{}, errors.Wrap(err, "failed to create customer")
	}
	return toDomainCustomer(row), nil
}

func (g *PgCustomerRepository) Update(ctx context.Context, c customer.Customer) (customer.Customer, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return customer.Customer{}, err
	}

	row, err := scanCustomer(tx.QueryRow(
		ctx,
		customerUpdateQuery,
		c.Name(),
		c.Phone(),
		c.Email(),
		c.Address(),
		c.ID(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.Customer{}, customer.ErrNotFound
		}
		if isUniqueViolation(err) {
			return customer.Customer{}, customer.ErrPhoneTaken
		}
		return customer.Customer{}, errors.Wrap(err, "failed to update customer")
	}
	return toDomainCustomer(row), nil
}

func (g *PgCustomerRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, customerDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete customer")
	}
	if tag.RowsAffected() == 0 {
		return customer.ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var out models.Customer
	err := row.Scan(
		&out.ID,
		&out.Name,
		&out.Phone,
		&out.Email,
		&out.Address,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	return out, err
}

// isUniqueViolation reports a postgres 23505 error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
