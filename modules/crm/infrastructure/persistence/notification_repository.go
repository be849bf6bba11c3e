package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/rsmhq/rsm/modules/crm/domain/entities/notification"
	"github.com/rsmhq/rsm/modules/crm/infrastructure/persistence/models"
	"github.com/rsmhq/rsm/pkg/composables"
)

const (
	notificationInsertQuery = `
        INSERT INTO notifications_log (work_order_id, customer_id, channel, payload, status, sent_at, error)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, work_order_id, customer_id, channel, payload, status, sent_at, error, created_at`

	notificationSentForEventQuery = `
        SELECT EXISTS (
            SELECT 1 FROM notifications_log
            WHERE status = 'sent' AND payload ->> 'event_id' = $1
        )`

	notificationFindQuery = `
        SELECT n.id, n.work_order_id, n.customer_id, n.channel, n.payload, n.status, n.sent_at, n.error, n.created_at
        FROM notifications_log n`
)

type PgNotificationRepository struct{}

func NewNotificationRepository() notification.Repository {
	return &PgNotificationRepository{}
}

func (g *PgNotificationRepository) Create(ctx context.Context, l notification.Log) (notification.Log, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return notification.Log{}, err
	}

	var errMessage *string
	if l.Error() != "" {
		s := l.Error()
		errMessage = &s
	}

	var row models.NotificationLog
	if err := tx.QueryRow(
		ctx,
		notificationInsertQuery,
		l.WorkOrderID(),
		l.CustomerID(),
		l.Channel(),
		l.Payload(),
		string(l.Status()),
		l.SentAt(),
		errMessage,
	).Scan(
		&row.ID,
		&row.WorkOrderID,
		&row.CustomerID,
		&row.Channel,
		&row.Payload,
		&row.Status,
		&row.SentAt,
		&row.Error,
		&row.CreatedAt,
	); err != nil {
		return notification.Log{}, errors.Wrap(err, "failed to create notification log")
	}
	return toDomainNotificationLog(row), nil
}

func (g *PgNotificationRepository) ExistsSentForEvent(ctx context.Context, eventID string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := tx.QueryRow(ctx, notificationSentForEventQuery, eventID).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "failed to check notification log")
	}
	return exists, nil
}

func (g *PgNotificationRepository) ListByWorkOrder(ctx context.Context, workOrderID uint) ([]notification.Log, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, notificationFindQuery+` WHERE n.work_order_id = $1 ORDER BY n.id DESC`, workOrderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notification log")
	}
	defer rows.Close()

	var out []notification.Log
	for rows.Next() {
		var row models.NotificationLog
		if err := rows.Scan(
			&row.ID,
			&row.WorkOrderID,
			&row.CustomerID,
			&row.Channel,
			&row.Payload,
			&row.Status,
			&row.SentAt,
			&row.Error,
			&row.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan notification log")
		}
		out = append(out, toDomainNotificationLog(row))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate notification log")
	}
	return out, nil
}
