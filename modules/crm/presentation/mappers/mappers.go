package mappers

import (
	"time"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/presentation/viewmodels"
)

func CustomerToViewModel(c customer.Customer) viewmodels.Customer {
	return viewmodels.Customer{
		ID:        c.ID(),
		Name:      c.Name(),
		Phone:     c.Phone(),
		Email:     c.Email(),
		Address:   c.Address(),
		CreatedAt: c.CreatedAt().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt().Format(time.RFC3339),
	}
}

func WorkOrderToViewModel(wo workorder.WorkOrder) viewmodels.WorkOrder {
	var dueAt *string
	if wo.DueAt() != nil {
		s := wo.DueAt().Format(time.RFC3339)
		dueAt = &s
	}
	return viewmodels.WorkOrder{
		ID:          wo.ID(),
		CustomerID:  wo.CustomerID(),
		Title:       wo.Title(),
		Description: wo.Description(),
		Status:      string(wo.Status()),
		Priority:    string(wo.Priority()),
		DueAt:       dueAt,
		CreatedBy:   wo.CreatedBy(),
		CreatedAt:   wo.CreatedAt().Format(time.RFC3339),
		UpdatedAt:   wo.UpdatedAt().Format(time.RFC3339),
	}
}

func NoteToViewModel(n workorder.Note) viewmodels.Note {
	return viewmodels.Note{
		ID:          n.ID(),
		WorkOrderID: n.WorkOrderID(),
		UserID:      n.UserID(),
		Note:        n.Text(),
		CreatedAt:   n.CreatedAt().Format(time.RFC3339),
	}
}

func StatusHistoryToViewModel(h workorder.StatusHistory) viewmodels.StatusHistory {
	var from *string
	if h.FromStatus() != nil {
		s := string(*h.FromStatus())
		from = &s
	}
	return viewmodels.StatusHistory{
		ID:          h.ID(),
		WorkOrderID: h.WorkOrderID(),
		FromStatus:  from,
		ToStatus:    string(h.ToStatus()),
		ChangedBy:   h.ChangedBy(),
		ChangedAt:   h.ChangedAt().Format(time.RFC3339),
	}
}
