package persistence

import (
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/domain/entities/notification"
	"github.com/rsmhq/rsm/modules/crm/infrastructure/persistence/models"
)

func toDomainCustomer(row models.Customer) customer.Customer {
	return customer.Hydrate(
		row.ID,
		row.Name,
		row.Phone,
		row.Email,
		row.Address,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainWorkOrder(row models.WorkOrder) workorder.WorkOrder {
	return workorder.Hydrate(
		row.ID,
		row.CustomerID,
		row.Title,
		row.Description,
		workorder.Status(row.Status),
		workorder.Priority(row.Priority),
		row.DueAt,
		row.CreatedBy,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func toDomainNote(row models.WorkOrderNote) workorder.Note {
	return workorder.HydrateNote(
		row.ID,
		row.WorkOrderID,
		row.UserID,
		row.Note,
		row.CreatedAt,
	)
}

func toDomainStatusHistory(row models.StatusHistory) workorder.StatusHistory {
	var from *workorder.Status
	if row.FromStatus != nil {
		s := workorder.Status(*row.FromStatus)
		from = &s
	}
	return workorder.HydrateStatusHistory(
		row.ID,
		row.WorkOrderID,
		from,
		workorder.Status(row.ToStatus),
		row.ChangedBy,
		row.ChangedAt,
	)
}

func toDomainNotificationLog(row models.NotificationLog) notification.Log {
	errMessage := ""
	if row.Error != nil {
		errMessage = *row.Error
	}
	return notification.HydrateLog(
		row.ID,
		row.WorkOrderID,
		row.CustomerID,
		row.Channel,
		row.Payload,
		notification.Status(row.Status),
		row.SentAt,
		errMessage,
		row.CreatedAt,
	)
}
