package workorder

import (
	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/crm/permissions"
	"github.com/rsmhq/rsm/pkg/serrors"
)

var (
	ErrUnknownStatus      = serrors.NewError("CRM_VALIDATION", "The selected status is invalid.")
	ErrTransitionFromDone = serrors.NewError("CRM_INVALID_TRANSITION", `Cannot change status from "done" to another status.`)
	ErrNoteRequired       = serrors.NewError("CRM_PRECONDITION_FAILED", `Cannot mark work order as "done" without at least one note.`)
	ErrCancelForbidden    = serrors.NewError("CRM_FORBIDDEN", "Only administrators can cancel work orders.")
	ErrStatusNotAllowed   = serrors.NewError("CRM_FORBIDDEN", "You are not allowed to set this status.")
)

// Transition is one requested status change. Transitions form a full mesh
// filtered by the rules below; there is no adjacency table, and a direct
// new -> done jump is legal as long as a note exists.
type Transition struct {
	From      Status
	To        Status
	NoteCount int64
}

// Validate applies the business rules in order, failing fast with the first
// violated rule. Capability rules query set membership on the actor only.
//
// Target reachability by capability:
//
//	change-work-order-status   in_progress, waiting_customer
//	+ resolve-work-orders      done, new
//	+ cancel-work-orders       cancelled
func (t Transition) Validate(actor user.User) error {
	if !t.To.IsValid() {
		return ErrUnknownStatus
	}
	if t.From == StatusDone {
		return ErrTransitionFromDone
	}
	if t.To == StatusDone && t.NoteCount == 0 {
		return ErrNoteRequired
	}
	if t.To == StatusCancelled && !actor.Can(permissions.WorkOrderCancel) {
		return ErrCancelForbidden
	}
	if !actor.Can(permissions.WorkOrderChangeStatus) {
		return ErrStatusNotAllowed
	}
	if (t.To == StatusDone || t.To == StatusNew) && !actor.Can(permissions.WorkOrderResolve) {
		return ErrStatusNotAllowed
	}
	return nil
}
