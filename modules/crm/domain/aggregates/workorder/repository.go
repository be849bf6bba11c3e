package workorder

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("work order not found")

type FindParams struct {
	Statuses   []Status
	Priority   Priority
	CustomerID uint
	Q          string
	// DueBefore keeps only orders with a due date at or before the cutoff.
	DueBefore *time.Time
	Limit     int
	Offset    int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]WorkOrder, int64, error)
	GetByID(ctx context.Context, id uint) (WorkOrder, error)
	Create(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	Update(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	Delete(ctx context.Context, id uint) error

	CountNotes(ctx context.Context, workOrderID uint) (int64, error)
	ListNotes(ctx context.Context, workOrderID uint) ([]Note, error)
	AddNote(ctx context.Context, n Note) (Note, error)

	AddHistory(ctx context.Context, h StatusHistory) (StatusHistory, error)
	ListHistory(ctx context.Context, workOrderID uint) ([]StatusHistory, error)
}

// OutboxEnqueuer publishes a status-changed event into the transactional
// outbox using whatever transaction the context carries.
type OutboxEnqueuer interface {
	EnqueueStatusChanged(ctx context.Context, ev StatusChangedEvent) error
}
