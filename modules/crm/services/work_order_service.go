package services

import (
	"context"
	"time"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/permissions"
	"github.com/rsmhq/rsm/pkg/composables"
)

// runInTx is the transactional unit-of-work boundary. Tests swap it out to
// run against in-memory repositories.
var runInTx = composables.InTx

// waitingCustomerGrace is added to due_at when a work order enters
// waiting_customer without a due date.
const waitingCustomerGrace = 72 * time.Hour

type WorkOrderService struct {
	repo   workorder.Repository
	outbox workorder.OutboxEnqueuer
	now    func() time.Time
}

func NewWorkOrderService(repo workorder.Repository, outbox workorder.OutboxEnqueuer) *WorkOrderService {
	return &WorkOrderService{
		repo:   repo,
		outbox: outbox,
		now:    time.Now,
	}
}

func (s *WorkOrderService) GetPaginated(ctx context.Context, params *workorder.FindParams) ([]workorder.WorkOrder, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *WorkOrderService) GetByID(ctx context.Context, id uint) (workorder.WorkOrder, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *WorkOrderService) Create(ctx context.Context, dto *workorder.CreateDTO, createdBy uint) (workorder.WorkOrder, error) {
	if err := ensureCan(ctx, permissions.WorkOrderCreate); err != nil {
		return workorder.WorkOrder{}, err
	}
	var created workorder.WorkOrder
	err := runInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, dto.ToEntity(createdBy))
		if err != nil {
			return err
		}
		// Seed the audit trail; from_status stays null for the initial row.
		seed := workorder.NewStatusHistory(created.ID(), nil, created.Status(), createdBy, s.now())
		_, err = s.repo.AddHistory(txCtx, seed)
		return err
	})
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	return created, nil
}

func (s *WorkOrderService) Update(ctx context.Context, id uint, dto *workorder.UpdateDTO) (workorder.WorkOrder, error) {
	if err := ensureCan(ctx, permissions.WorkOrderEdit); err != nil {
		return workorder.WorkOrder{}, err
	}
	var updated workorder.WorkOrder
	err := runInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		updated, err = s.repo.Update(txCtx, dto.Apply(existing))
		return err
	})
	return updated, err
}

func (s *WorkOrderService) Delete(ctx context.Context, id uint) error {
	if err := ensureCan(ctx, permissions.WorkOrderDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ChangeStatus validates and applies one status transition atomically: the
// status update, the optional due_at side effect and the history row commit
// together or not at all. The waiting_customer notification rides the same
// transaction via the outbox, so a crashed dispatch can never undo a
// committed transition.
func (s *WorkOrderService) ChangeStatus(ctx context.Context, id uint, newStatus workorder.Status, actor user.User) (workorder.WorkOrder, error) {
	var updated workorder.WorkOrder
	err := runInTx(ctx, func(txCtx context.Context) error {
		wo, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		var noteCount int64
		if newStatus == workorder.StatusDone {
			noteCount, err = s.repo.CountNotes(txCtx, wo.ID())
			if err != nil {
				return err
			}
		}

		t := workorder.Transition{From: wo.Status(), To: newStatus, NoteCount: noteCount}
		if err := t.Validate(actor); err != nil {
			return err
		}

		oldStatus := wo.Status()
		next := wo.WithStatus(newStatus)
		if newStatus == workorder.StatusWaitingCustomer && wo.DueAt() == nil {
			dueAt := s.now().Add(waitingCustomerGrace)
			next = next.WithDueAt(&dueAt)
		}

		updated, err = s.repo.Update(txCtx, next)
		if err != nil {
			return err
		}

		history := workorder.NewStatusHistory(wo.ID(), &oldStatus, newStatus, actor.ID(), s.now())
		if _, err := s.repo.AddHistory(txCtx, history); err != nil {
			return err
		}

		if newStatus == workorder.StatusWaitingCustomer {
			ev := workorder.StatusChangedEvent{
				WorkOrderID: updated.ID(),
				CustomerID:  updated.CustomerID(),
				Title:       updated.Title(),
				OldStatus:   oldStatus,
				NewStatus:   newStatus,
				ChangedBy:   actor.ID(),
			}
			if err := s.outbox.EnqueueStatusChanged(txCtx, ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	return updated, nil
}

func (s *WorkOrderService) ListHistory(ctx context.Context, workOrderID uint) ([]workorder.StatusHistory, error) {
	return s.repo.ListHistory(ctx, workOrderID)
}

func (s *WorkOrderService) ListNotes(ctx context.Context, workOrderID uint) ([]workorder.Note, error) {
	return s.repo.ListNotes(ctx, workOrderID)
}

func (s *WorkOrderService) AddNote(ctx context.Context, workOrderID uint, text string, author user.User) (workorder.Note, error) {
	if err := ensureCan(ctx, permissions.WorkOrderAddNote); err != nil {
		return workorder.Note{}, err
	}
	var note workorder.Note
	err := runInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.GetByID(txCtx, workOrderID); err != nil {
			return err
		}
		var err error
		note, err = s.repo.AddNote(txCtx, workorder.NewNote(workOrderID, author.ID(), text))
		return err
	})
	return note, err
}
