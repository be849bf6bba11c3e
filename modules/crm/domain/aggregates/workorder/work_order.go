package workorder

import (
	"strings"
	"time"
)

type Status string

const (
	StatusNew             Status = "new"
	StatusInProgress      Status = "in_progress"
	StatusWaitingCustomer Status = "waiting_customer"
	StatusDone            Status = "done"
	StatusCancelled       Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusWaitingCustomer, StatusDone, StatusCancelled:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type WorkOrder struct {
	id          uint
	customerID  uint
	title       string
	description string
	status      Status
	priority    Priority
	dueAt       *time.Time
	createdBy   uint
	createdAt   time.Time
	updatedAt   time.Time
}

func New(customerID uint, title, description string, priority Priority, dueAt *time.Time, createdBy uint) WorkOrder {
	if priority == "" {
		priority = PriorityMedium
	}
	return WorkOrder{
		customerID:  customerID,
		title:       strings.TrimSpace(title),
		description: strings.TrimSpace(description),
		status:      StatusNew,
		priority:    priority,
		dueAt:       dueAt,
		createdBy:   createdBy,
	}
}

func Hydrate(
	id uint,
	customerID uint,
	title string,
	description string,
	status Status,
	priority Priority,
	dueAt *time.Time,
	createdBy uint,
	createdAt time.Time,
	updatedAt time.Time,
) WorkOrder {
	return WorkOrder{
		id:          id,
		customerID:  customerID,
		title:       title,
		description: description,
		status:      status,
		priority:    priority,
		dueAt:       dueAt,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (w WorkOrder) ID() uint             { return w.id }
func (w WorkOrder) CustomerID() uint     { return w.customerID }
func (w WorkOrder) Title() string        { return w.title }
func (w WorkOrder) Description() string  { return w.description }
func (w WorkOrder) Status() Status       { return w.status }
func (w WorkOrder) Priority() Priority   { return w.priority }
func (w WorkOrder) DueAt() *time.Time    { return w.dueAt }
func (w WorkOrder) CreatedBy() uint      { return w.createdBy }
func (w WorkOrder) CreatedAt() time.Time { return w.createdAt }
func (w WorkOrder) UpdatedAt() time.Time { return w.updatedAt }
func (w WorkOrder) IsZero() bool         { return w.id == 0 && w.title == "" }

// WithStatus returns a copy in the target status. Rule checks live in
// Transition; this is plain state.
func (w WorkOrder) WithStatus(s Status) WorkOrder {
	w.status = s
	return w
}

func (w WorkOrder) WithDueAt(t *time.Time) WorkOrder {
	w.dueAt = t
	return w
}
