package workorder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/role"
	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/permissions"
)

func actorWith(perms ...*permission.Permission) user.User {
	return user.New("tester", "tester@example.com", []role.Role{
		role.New("test-role", "", perms),
	})
}

func adminActor() user.User {
	return actorWith(
		permissions.WorkOrderChangeStatus,
		permissions.WorkOrderResolve,
		permissions.WorkOrderCancel,
	)
}

func staffActor() user.User {
	return actorWith(
		permissions.WorkOrderChangeStatus,
		permissions.WorkOrderResolve,
	)
}

func supportActor() user.User {
	return actorWith(permissions.WorkOrderChangeStatus)
}

func TestTransitionValidate(t *testing.T) {
	tests := []struct {
		name      string
		from      workorder.Status
		to        workorder.Status
		noteCount int64
		actor     user.User
		wantErr   error
	}{
		{
			name:    "done is terminal",
			from:    workorder.StatusDone,
			to:      workorder.StatusInProgress,
			actor:   adminActor(),
			wantErr: workorder.ErrTransitionFromDone,
		},
		{
			name:    "done is terminal even toward cancelled",
			from:    workorder.StatusDone,
			to:      workorder.StatusCancelled,
			actor:   adminActor(),
			wantErr: workorder.ErrTransitionFromDone,
		},
		{
			name:    "done requires a note",
			from:    workorder.StatusInProgress,
			to:      workorder.StatusDone,
			actor:   adminActor(),
			wantErr: workorder.ErrNoteRequired,
		},
		{
			name:      "done allowed with a note",
			from:      workorder.StatusInProgress,
			to:        workorder.StatusDone,
			noteCount: 1,
			actor:     staffActor(),
		},
		{
			name:      "direct new to done allowed with a note",
			from:      workorder.StatusNew,
			to:        workorder.StatusDone,
			noteCount: 1,
			actor:     staffActor(),
		},
		{
			name:    "cancel needs the cancel capability",
			from:    workorder.StatusInProgress,
			to:      workorder.StatusCancelled,
			actor:   staffActor(),
			wantErr: workorder.ErrCancelForbidden,
		},
		{
			name:  "admin may cancel",
			from:  workorder.StatusInProgress,
			to:    workorder.StatusCancelled,
			actor: adminActor(),
		},
		{
			name:    "support may not resolve",
			from:    workorder.StatusInProgress,
			to:      workorder.StatusNew,
			actor:   supportActor(),
			wantErr: workorder.ErrStatusNotAllowed,
		},
		{
			name:      "support may not mark done even with notes",
			from:      workorder.StatusInProgress,
			to:        workorder.StatusDone,
			noteCount: 3,
			actor:     supportActor(),
			wantErr:   workorder.ErrStatusNotAllowed,
		},
		{
			name:  "support may park for customer",
			from:  workorder.StatusNew,
			to:    workorder.StatusWaitingCustomer,
			actor: supportActor(),
		},
		{
			name:  "support may start work",
			from:  workorder.StatusNew,
			to:    workorder.StatusInProgress,
			actor: supportActor(),
		},
		{
			name:    "no base capability",
			from:    workorder.StatusNew,
			to:      workorder.StatusInProgress,
			actor:   actorWith(),
			wantErr: workorder.ErrStatusNotAllowed,
		},
		{
			name:    "unknown target status",
			from:    workorder.StatusNew,
			to:      workorder.Status("archived"),
			actor:   adminActor(),
			wantErr: workorder.ErrUnknownStatus,
		},
		{
			name:  "staff may reopen to new",
			from:  workorder.StatusCancelled,
			to:    workorder.StatusNew,
			actor: staffActor(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := workorder.Transition{From: tt.from, To: tt.to, NoteCount: tt.noteCount}
			err := tr.Validate(tt.actor)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
