package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/core/domain/aggregates/role"
	"github.com/rsmhq/rsm/modules/core/domain/aggregates/user"
	"github.com/rsmhq/rsm/modules/core/domain/entities/permission"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/modules/crm/permissions"
	"github.com/rsmhq/rsm/pkg/composables"
)

// passthroughTx replaces the transactional boundary for unit tests.
func passthroughTx(t *testing.T) {
	t.Helper()
	orig := runInTx
	runInTx = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	t.Cleanup(func() { runInTx = orig })
}

func testActor(id uint, perms ...*permission.Permission) user.User {
	return user.Hydrate(id, "tester", "tester@example.com", []role.Role{
		role.New("test-role", "", perms),
	}, nil, time.Time{}, time.Time{})
}

type mockWorkOrderRepo struct {
	orders    map[uint]workorder.WorkOrder
	notes     map[uint][]workorder.Note
	histories map[uint][]workorder.StatusHistory
	nextID    uint
}

func newMockWorkOrderRepo() *mockWorkOrderRepo {
	return &mockWorkOrderRepo{
		orders:    map[uint]workorder.WorkOrder{},
		notes:     map[uint][]workorder.Note{},
		histories: map[uint][]workorder.StatusHistory{},
		nextID:    1,
	}
}

func (m *mockWorkOrderRepo) GetPaginated(_ context.Context, _ *workorder.FindParams) ([]workorder.WorkOrder, int64, error) {
	out := make([]workorder.WorkOrder, 0, len(m.orders))
	for _, wo := range m.orders {
		out = append(out, wo)
	}
	return out, int64(len(out)), nil
}

func (m *mockWorkOrderRepo) GetByID(_ context.Context, id uint) (workorder.WorkOrder, error) {
	wo, ok := m.orders[id]
	if !ok {
		return workorder.WorkOrder{}, workorder.ErrNotFound
	}
	return wo, nil
}

func (m *mockWorkOrderRepo) Create(_ context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	id := m.nextID
	m.nextID++
	created := workorder.Hydrate(
		id, wo.CustomerID(), wo.Title(), wo.Description(), wo.Status(), wo.Priority(),
		wo.DueAt(), wo.CreatedBy(), time.Now(), time.Now(),
	)
	m.orders[id] = created
	return created, nil
}

func (m *mockWorkOrderRepo) Update(_ context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	if _, ok := m.orders[wo.ID()]; !ok {
		return workorder.WorkOrder{}, workorder.ErrNotFound
	}
	m.orders[wo.ID()] = wo
	return wo, nil
}

func (m *mockWorkOrderRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.orders[id]; !ok {
		return workorder.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockWorkOrderRepo) CountNotes(_ context.Context, workOrderID uint) (int64, error) {
	return int64(len(m.notes[workOrderID])), nil
}

func (m *mockWorkOrderRepo) ListNotes(_ context.Context, workOrderID uint) ([]workorder.Note, error) {
	return m.notes[workOrderID], nil
}

func (m *mockWorkOrderRepo) AddNote(_ context.Context, n workorder.Note) (workorder.Note, error) {
	m.notes[n.WorkOrderID()] = append(m.notes[n.WorkOrderID()], n)
	return n, nil
}

func (m *mockWorkOrderRepo) AddHistory(_ context.Context, h workorder.StatusHistory) (workorder.StatusHistory, error) {
	m.histories[h.WorkOrderID()] = append(m.histories[h.WorkOrderID()], h)
	return h, nil
}

func (m *mockWorkOrderRepo) ListHistory(_ context.Context, workOrderID uint) ([]workorder.StatusHistory, error) {
	return m.histories[workOrderID], nil
}

type mockEnqueuer struct {
	events []workorder.StatusChangedEvent
}

func (m *mockEnqueuer) EnqueueStatusChanged(_ context.Context, ev workorder.StatusChangedEvent) error {
	m.events = append(m.events, ev)
	return nil
}

func seedOrder(repo *mockWorkOrderRepo, status workorder.Status, dueAt *time.Time) workorder.WorkOrder {
	id := repo.nextID
	repo.nextID++
	wo := workorder.Hydrate(id, 7, "Fix boiler", "", status, workorder.PriorityMedium, dueAt, 1, time.Now(), time.Now())
	repo.orders[id] = wo
	return wo
}

func TestWorkOrderServiceChangeStatus(t *testing.T) {
	passthroughTx(t)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	newService := func(repo *mockWorkOrderRepo, enq *mockEnqueuer) *WorkOrderService {
		svc := NewWorkOrderService(repo, enq)
		svc.now = func() time.Time { return now }
		return svc
	}

	admin := testActor(3,
		permissions.WorkOrderChangeStatus,
		permissions.WorkOrderResolve,
		permissions.WorkOrderCancel,
	)

	t.Run("waiting_customer sets due date when unset", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}
		wo := seedOrder(repo, workorder.StatusInProgress, nil)

		updated, err := newService(repo, enq).ChangeStatus(context.Background(), wo.ID(), workorder.StatusWaitingCustomer, admin)
		require.NoError(t, err)
		require.Equal(t, workorder.StatusWaitingCustomer, updated.Status())
		require.NotNil(t, updated.DueAt())
		require.Equal(t, now.Add(72*time.Hour), *updated.DueAt())
	})

	t.Run("waiting_customer keeps an existing due date", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}
		dueAt := now.Add(24 * time.Hour)
		wo := seedOrder(repo, workorder.StatusInProgress, &dueAt)

		updated, err := newService(repo, enq).ChangeStatus(context.Background(), wo.ID(), workorder.StatusWaitingCustomer, admin)
		require.NoError(t, err)
		require.Equal(t, dueAt, *updated.DueAt())
	})

	t.Run("exactly one history row per transition", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}
		wo := seedOrder(repo, workorder.StatusNew, nil)

		_, err := newService(repo, enq).ChangeStatus(context.Background(), wo.ID(), workorder.StatusInProgress, admin)
		require.NoError(t, err)

		histories := repo.histories[wo.ID()]
		require.Len(t, histories, 1)
		require.NotNil(t, histories[0].FromStatus())
		require.Equal(t, workorder.StatusNew, *histories[0].FromStatus())
		require.Equal(t, workorder.StatusInProgress, histories[0].ToStatus())
		require.Equal(t, admin.ID(), histories[0].ChangedBy())
	})

	t.Run("only waiting_customer enqueues a notification", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}
		svc := newService(repo, enq)

		wo := seedOrder(repo, workorder.StatusNew, nil)
		_, err := svc.ChangeStatus(context.Background(), wo.ID(), workorder.StatusInProgress, admin)
		require.NoError(t, err)
		require.Empty(t, enq.events)

		_, err = svc.ChangeStatus(context.Background(), wo.ID(), workorder.StatusWaitingCustomer, admin)
		require.NoError(t, err)
		require.Len(t, enq.events, 1)
		require.Equal(t, wo.ID(), enq.events[0].WorkOrderID)
		require.Equal(t, workorder.StatusInProgress, enq.events[0].OldStatus)
		require.Equal(t, workorder.StatusWaitingCustomer, enq.events[0].NewStatus)
	})

	t.Run("rejected transition persists nothing", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}
		wo := seedOrder(repo, workorder.StatusInProgress, nil)

		_, err := newService(repo, enq).ChangeStatus(context.Background(), wo.ID(), workorder.StatusDone, admin)
		require.ErrorIs(t, err, workorder.ErrNoteRequired)
		require.Equal(t, workorder.StatusInProgress, repo.orders[wo.ID()].Status())
		require.Empty(t, repo.histories[wo.ID()])
		require.Empty(t, enq.events)
	})

	t.Run("done is terminal", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}
		wo := seedOrder(repo, workorder.StatusDone, nil)

		_, err := newService(repo, enq).ChangeStatus(context.Background(), wo.ID(), workorder.StatusNew, admin)
		require.ErrorIs(t, err, workorder.ErrTransitionFromDone)
	})

	t.Run("missing work order", func(t *testing.T) {
		repo := newMockWorkOrderRepo()
		enq := &mockEnqueuer{}

		_, err := newService(repo, enq).ChangeStatus(context.Background(), 99, workorder.StatusInProgress, admin)
		require.ErrorIs(t, err, workorder.ErrNotFound)
	})
}

func TestWorkOrderServiceCreate(t *testing.T) {
	passthroughTx(t)
	repo := newMockWorkOrderRepo()
	svc := NewWorkOrderService(repo, &mockEnqueuer{})

	actor := testActor(5, permissions.WorkOrderCreate)
	ctx := composables.WithUser(context.Background(), actor)

	created, err := svc.Create(ctx, &workorder.CreateDTO{
		CustomerID: 7,
		Title:      "Replace filter",
	}, actor.ID())
	require.NoError(t, err)
	require.Equal(t, workorder.StatusNew, created.Status())
	require.Equal(t, workorder.PriorityMedium, created.Priority())

	histories := repo.histories[created.ID()]
	require.Len(t, histories, 1, "creation seeds the audit trail")
	require.Nil(t, histories[0].FromStatus())
	require.Equal(t, workorder.StatusNew, histories[0].ToStatus())
}

func TestWorkOrderServiceCreateForbidden(t *testing.T) {
	passthroughTx(t)
	svc := NewWorkOrderService(newMockWorkOrderRepo(), &mockEnqueuer{})

	actor := testActor(5) // no capabilities
	ctx := composables.WithUser(context.Background(), actor)

	_, err := svc.Create(ctx, &workorder.CreateDTO{CustomerID: 7, Title: "x"}, actor.ID())
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestWorkOrderServiceAddNote(t *testing.T) {
	passthroughTx(t)
	repo := newMockWorkOrderRepo()
	svc := NewWorkOrderService(repo, &mockEnqueuer{})
	wo := seedOrder(repo, workorder.StatusNew, nil)

	actor := testActor(9, permissions.WorkOrderAddNote)
	ctx := composables.WithUser(context.Background(), actor)

	note, err := svc.AddNote(ctx, wo.ID(), "  called the customer  ", actor)
	require.NoError(t, err)
	require.Equal(t, "called the customer", note.Text())
	require.Equal(t, actor.ID(), note.UserID())

	_, err = svc.AddNote(ctx, 42, "note", actor)
	require.ErrorIs(t, err, workorder.ErrNotFound)
}
