package workorder

import "time"

// StatusHistory is an immutable audit record. FromStatus is nil only for the
// seed row written when the work order is created.
type StatusHistory struct {
	id          uint
	workOrderID uint
	fromStatus  *Status
	toStatus    Status
	changedBy   uint
	changedAt   time.Time
}

func NewStatusHistory(workOrderID uint, from *Status, to Status, changedBy uint, changedAt time.Time) StatusHistory {
	return StatusHistory{
		workOrderID: workOrderID,
		fromStatus:  from,
		toStatus:    to,
		changedBy:   changedBy,
		changedAt:   changedAt,
	}
}

func HydrateStatusHistory(id, workOrderID uint, from *Status, to Status, changedBy uint, changedAt time.Time) StatusHistory {
	return StatusHistory{
		id:          id,
		workOrderID: workOrderID,
		fromStatus:  from,
		toStatus:    to,
		changedBy:   changedBy,
		changedAt:   changedAt,
	}
}

func (h StatusHistory) ID() uint             { return h.id }
func (h StatusHistory) WorkOrderID() uint    { return h.workOrderID }
func (h StatusHistory) FromStatus() *Status  { return h.fromStatus }
func (h StatusHistory) ToStatus() Status     { return h.toStatus }
func (h StatusHistory) ChangedBy() uint      { return h.changedBy }
func (h StatusHistory) ChangedAt() time.Time { return h.changedAt }
