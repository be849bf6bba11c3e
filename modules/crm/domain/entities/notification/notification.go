package notification

import (
	"context"
	"time"
)

type Status string

const (
	StatusQueued Status = "queued"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

const ChannelMail = "mail"

// Log is one delivery attempt record for a customer-facing notification.
type Log struct {
	id          uint
	workOrderID uint
	customerID  uint
	channel     string
	payload     []byte
	status      Status
	sentAt      *time.Time
	errMessage  string
	createdAt   time.Time
}

func NewLog(workOrderID, customerID uint, channel string, payload []byte) Log {
	return Log{
		workOrderID: workOrderID,
		customerID:  customerID,
		channel:     channel,
		payload:     payload,
		status:      StatusQueued,
	}
}

func HydrateLog(
	id uint,
	workOrderID uint,
	customerID uint,
	channel string,
	payload []byte,
	status Status,
	sentAt *time.Time,
	errMessage string,
	createdAt time.Time,
) Log {
	return Log{
		id:          id,
		workOrderID: workOrderID,
		customerID:  customerID,
		channel:     channel,
		payload:     payload,
		status:      status,
		sentAt:      sentAt,
		errMessage:  errMessage,
		createdAt:   createdAt,
	}
}

func (l Log) ID() uint             { return l.id }
func (l Log) WorkOrderID() uint    { return l.workOrderID }
func (l Log) CustomerID() uint     { return l.customerID }
func (l Log) Channel() string      { return l.channel }
func (l Log) Payload() []byte      { return l.payload }
func (l Log) Status() Status       { return l.status }
func (l Log) SentAt() *time.Time   { return l.sentAt }
func (l Log) Error() string        { return l.errMessage }
func (l Log) CreatedAt() time.Time { return l.createdAt }

func (l Log) MarkSent(at time.Time) Log {
	l.status = StatusSent
	l.sentAt = &at
	l.errMessage = ""
	return l
}

func (l Log) MarkFailed(errMessage string) Log {
	l.status = StatusFailed
	l.errMessage = errMessage
	return l
}

type Repository interface {
	Create(ctx context.Context, l Log) (Log, error)
	ListByWorkOrder(ctx context.Context, workOrderID uint) ([]Log, error)
	// ExistsSentForEvent reports whether a sent log already references the
	// given outbox event id. Delivery is at-least-once; consumers use this
	// to drop redeliveries.
	ExistsSentForEvent(ctx context.Context, eventID string) (bool, error)
}
