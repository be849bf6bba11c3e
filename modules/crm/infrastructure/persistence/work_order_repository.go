package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/infrastructure/persistence/models"
	"github.com/rsmhq/rsm/pkg/composables"
	"github.com/rsmhq/rsm/pkg/repo"
)

const (
	workOrderFindQuery = `
        SELECT
            wo.id,
            wo.customer_id,
            wo.title,
            wo.description,
            wo.status,
            wo.priority,
            wo.due_at,
            wo.created_by,
            wo.created_at,
            wo.updated_at
        FROM work_orders wo`

	workOrderCountQuery = `SELECT COUNT(wo.id) FROM work_orders wo`

	workOrderInsertQuery = `
        INSERT INTO work_orders (customer_id, title, description, status, priority, due_at, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, customer_id, title, description, status, priority, due_at, created_by, created_at, updated_at`

	workOrderUpdateQuery = `
        UPDATE work_orders
        SET customer_id = $1,
            title = $2,
            description = $3,
            status = $4,
            priority = $5,
            due_at = $6,
            updated_at = now()
        WHERE id = $7
        RETURNING id, customer_id, title, description, status, priority, due_at, created_by, created_at, updated_at`

	workOrderDeleteQuery = `DELETE FROM work_orders WHERE id = $1`

	noteFindQuery = `
        SELECT n.id, n.work_order_id, n.user_id, n.note, n.created_at
        FROM work_order_notes n`

	noteCountQuery = `SELECT COUNT(n.id) FROM work_order_notes n WHERE n.work_order_id = $1`

	noteInsertQuery = `
        INSERT INTO work_order_notes (work_order_id, user_id, note)
        VALUES ($1, $2, $3)
        RETURNING id, work_order_id, user_id, note, created_at`

	historyFindQuery = `
        SELECT h.id, h.work_order_id, h.from_status, h.to_status, h.changed_by, h.changed_at
        FROM work_order_status_histories h`

	historyInsertQuery = `
        INSERT INTO work_order_status_histories (work_order_id, from_status, to_status, changed_by, changed_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, work_order_id, from_status, to_status, changed_by, changed_at`
)

type PgWorkOrderRepository struct{}

func NewWorkOrderRepository() workorder.Repository {
	return &PgWorkOrderRepository{}
}

func (g *PgWorkOrderRepository) buildFilters(params *workorder.FindParams) ([]string, []interface{}) {
	var where []string
	var args []interface{}

	if len(params.Statuses) > 0 {
		placeholders := make([]string, 0, len(params.Statuses))
		for _, s := range params.Statuses {
			args = append(args, string(s))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		where = append(where, fmt.Sprintf("wo.status IN (%s)", strings.Join(placeholders, ", ")))
	}

	if params.Priority != "" {
		args = append(args, string(params.Priority))
		where = append(where, fmt.Sprintf("wo.priority = $%d", len(args)))
	}

	if params.CustomerID != 0 {
		args = append(args, params.CustomerID)
		where = append(where, fmt.Sprintf("wo.customer_id = $%d", len(args)))
	}

	if params.DueBefore != nil {
		args = append(args, *params.DueBefore)
		where = append(where, fmt.Sprintf("wo.due_at IS NOT NULL AND wo.due_at <= $%d", len(args)))
	}

	if params.Q != "" {
		args = append(args, "%"+params.Q+"%")
		index := len(args)
		where = append(where, fmt.Sprintf("(wo.title ILIKE $%d OR wo.description ILIKE $%d)", index, index))
	}

	return where, args
}

func (g *PgWorkOrderRepository) GetPaginated(ctx context.Context, params *workorder.FindParams) ([]workorder.WorkOrder, int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, 0, err
	}

	where, args := g.buildFilters(params)

	var total int64
	countQuery := repo.Join(workOrderCountQuery, repo.JoinWhere(where...))
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count work orders")
	}

	query := repo.Join(
		workOrderFindQuery,
		repo.JoinWhere(where...),
		"ORDER BY wo.id DESC",
		repo.FormatLimitOffset(params.Limit, params.Offset),
	)
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to query work orders")
	}
	defer rows.Close()

	var out []workorder.WorkOrder
	for rows.Next() {
		row, err := scanWorkOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, toDomainWorkOrder(row))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "failed to iterate work orders")
	}
	return out, total, nil
}

func (g *PgWorkOrderRepository) GetByID(ctx context.Context, id uint) (workorder.WorkOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	row, err := scanWorkOrder(tx.QueryRow(ctx, workOrderFindQuery+` WHERE wo.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workorder.WorkOrder{}, workorder.ErrNotFound
		}
		return workorder.WorkOrder{}, errors.Wrap(err, "failed to query work order")
	}
	return toDomainWorkOrder(row), nil
}

func (g *PgWorkOrderRepository) Create(ctx context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	row, err := scanWorkOrder(tx.QueryRow(
		ctx,
		workOrderInsertQuery,
		wo.CustomerID(),
		wo.Title(),
		wo.Description(),
		string(wo.Status()),
		string(wo.Priority()),
		wo.DueAt(),
		wo.CreatedBy(),
	))
	if err != nil {
		return workorder.WorkOrder{}, errors.Wrap(err, "failed to create work order")
	}
	return toDomainWorkOrder(row), nil
}

func (g *PgWorkOrderRepository) Update(ctx context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	row, err := scanWorkOrder(tx.QueryRow(
		ctx,
		workOrderUpdateQuery,
		wo.CustomerID(),
		wo.Title(),
		wo.Description(),
		string(wo.Status()),
		string(wo.Priority()),
		wo.DueAt(),
		wo.ID(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workorder.WorkOrder{}, workorder.ErrNotFound
		}
		return workorder.WorkOrder{}, errors.Wrap(err, "failed to update work order")
	}
	return toDomainWorkOrder(row), nil
}

func (g *PgWorkOrderRepository) Delete(ctx context.Context, id uint) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, workOrderDeleteQuery, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete work order")
	}
	if tag.RowsAffected() == 0 {
		return workorder.ErrNotFound
	}
	return nil
}

func (g *PgWorkOrderRepository) CountNotes(ctx context.Context, workOrderID uint) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.QueryRow(ctx, noteCountQuery, workOrderID).Scan(&total); err != nil {
		return 0, errors.Wrap(err, "failed to count notes")
	}
	return total, nil
}

func (g *PgWorkOrderRepository) ListNotes(ctx context.Context, workOrderID uint) ([]workorder.Note, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, noteFindQuery+` WHERE n.work_order_id = $1 ORDER BY n.id DESC`, workOrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notes")
	}
	defer rows.Close()

	var out []workorder.Note
	for rows.Next() {
		var row models.WorkOrderNote
		if err := rows.Scan(&row.ID, &row.WorkOrderID, &row.UserID, &row.Note, &row.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan note")
		}
		out = append(out, toDomainNote(row))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate notes")
	}
	return out, nil
}

func (g *PgWorkOrderRepository) AddNote(ctx context.Context, n workorder.Note) (workorder.Note, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.Note{}, err
	}

	var row models.WorkOrderNote
	if err := tx.QueryRow(ctx, noteInsertQuery, n.WorkOrderID(), n.UserID(), n.Text()).Scan(
		&row.ID,
		&row.WorkOrderID,
		&row.UserID,
		&row.Note,
		&row.CreatedAt,
	); err != nil {
		return workorder.Note{}, errors.Wrap(err, "failed to create note")
	}
	return toDomainNote(row), nil
}

func (g *PgWorkOrderRepository) AddHistory(ctx context.Context, h workorder.StatusHistory) (workorder.StatusHistory, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return workorder.StatusHistory{}, err
	}

	var from *string
	if h.FromStatus() != nil {
		s := string(*h.FromStatus())
		from = &s
	}

	var row models.StatusHistory
	if err := tx.QueryRow(
		ctx,
		historyInsertQuery,
		h.WorkOrderID(),
		from,
		string(h.ToStatus()),
		h.ChangedBy(),
		h.ChangedAt(),
	).Scan(
		&row.ID,
		&row.WorkOrderID,
		&row.FromStatus,
		&row.ToStatus,
		&row.ChangedBy,
		&row.ChangedAt,
	); err != nil {
		return workorder.StatusHistory{}, errors.Wrap(err, "failed to record status change")
	}
	return toDomainStatusHistory(row), nil
}

func (g *PgWorkOrderRepository) ListHistory(ctx context.Context, workOrderID uint) ([]workorder.StatusHistory, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, historyFindQuery+` WHERE h.work_order_id = $1 ORDER BY h.id DESC`, workOrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query status history")
	}
	defer rows.Close()

	var out []workorder.StatusHistory
	for rows.Next() {
		var row models.StatusHistory
		if err := rows.Scan(&row.ID, &row.WorkOrderID, &row.FromStatus, &row.ToStatus, &row.ChangedBy, &row.ChangedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan status history")
		}
		out = append(out, toDomainStatusHistory(row))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate status history")
	}
	return out, nil
}

func scanWorkOrder(row pgx.Row) (models.WorkOrder, error) {
	var out models.WorkOrder
	err := row.Scan(
		&out.ID,
		&out.CustomerID,
		&out.Title,
		&out.Description,
		&out.Status,
		&out.Priority,
		&out.DueAt,
		&out.CreatedBy,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	return out, err
}
