package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
)

func TestWorkOrderImport(t *testing.T) {
	passthroughTx(t)
	ctx := context.Background()
	const createdBy = uint(11)

	t.Run("creates missing customers on the fly", func(t *testing.T) {
		customers := newMockCustomerRepo()
		workOrders := newMockWorkOrderRepo()
		svc := NewWorkOrderImportService(workOrders, customers)

		csv := strings.Join([]string{
			"Title,Customer Name,Customer Phone,Priority,Due Date",
			"Fix boiler,Ada Lovelace,5550100001,high,2026-09-15",
			"Check radiator,Ada Lovelace,5550100001,,",
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)
		require.Equal(t, 2, report.ImportedCount)
		require.Zero(t, report.FailedCount)

		// Same phone resolves to one customer for both rows.
		cust, err := customers.GetByPhone(ctx, "5550100001")
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", cust.Name())

		require.Len(t, workOrders.orders, 2)
		for _, wo := range workOrders.orders {
			require.Equal(t, cust.ID(), wo.CustomerID())
			require.Equal(t, workorder.StatusNew, wo.Status())
			require.Equal(t, createdBy, wo.CreatedBy())
		}
	})

	t.Run("reuses an existing customer by phone", func(t *testing.T) {
		customers := newMockCustomerRepo()
		existing := customers.addExisting("Existing Co", "5550100002")
		workOrders := newMockWorkOrderRepo()
		svc := NewWorkOrderImportService(workOrders, customers)

		csv := "title,customer_name,customer_phone\nService visit,Ignored Name,5550100002\n"
		report, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)
		require.Equal(t, 1, report.ImportedCount)

		for _, wo := range workOrders.orders {
			require.Equal(t, existing.ID(), wo.CustomerID())
		}
		// The row does not overwrite the stored customer name.
		cust, err := customers.GetByPhone(ctx, "5550100002")
		require.NoError(t, err)
		require.Equal(t, "Existing Co", cust.Name())
	})

	t.Run("seeds the status history on creation", func(t *testing.T) {
		customers := newMockCustomerRepo()
		workOrders := newMockWorkOrderRepo()
		svc := NewWorkOrderImportService(workOrders, customers)
		svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }

		csv := "title,customer_name,customer_phone\nInspect pump,Bob,5550100003\n"
		_, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)

		require.Len(t, workOrders.histories, 1)
		for _, histories := range workOrders.histories {
			require.Len(t, histories, 1)
			require.Nil(t, histories[0].FromStatus())
			require.Equal(t, workorder.StatusNew, histories[0].ToStatus())
			require.Equal(t, createdBy, histories[0].ChangedBy())
		}
	})

	t.Run("reports validation failures in field order", func(t *testing.T) {
		svc := NewWorkOrderImportService(newMockWorkOrderRepo(), newMockCustomerRepo())

		csv := strings.Join([]string{
			"title,customer_name,customer_phone,priority,due_date",
			",Charlie,5550100004,urgent,not-a-date",
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)
		require.Equal(t, 1, report.FailedCount)
		require.Equal(t, 2, report.FailedRows[0].LineNumber)
		require.Equal(t, []string{
			"The title field is required.",
			"The selected priority is invalid.",
			"The due at field must be a valid date.",
		}, report.FailedRows[0].Errors)
	})

	t.Run("rejects overlong customer emails", func(t *testing.T) {
		svc := NewWorkOrderImportService(newMockWorkOrderRepo(), newMockCustomerRepo())

		email := strings.Repeat("a", 250) + "@example.com"
		csv := strings.Join([]string{
			"title,customer_name,customer_phone,customer_email",
			"Job,Frank,5550100008," + email,
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)
		require.Zero(t, report.ImportedCount)
		require.Equal(t, 1, report.FailedCount)
		require.Equal(t, []string{
			"The customer email field must not be greater than 255 characters.",
		}, report.FailedRows[0].Errors)
	})

	t.Run("customer create failure fails the row atomically", func(t *testing.T) {
		customers := newMockCustomerRepo()
		customers.createErr["5550100005"] = context.DeadlineExceeded
		workOrders := newMockWorkOrderRepo()
		svc := NewWorkOrderImportService(workOrders, customers)

		csv := "title,customer_name,customer_phone\nJob,Dana,5550100005\n"
		report, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)
		require.Equal(t, 1, report.FailedCount)
		require.Contains(t, report.FailedRows[0].Errors[0], "Failed to create work order:")
		require.Empty(t, workOrders.orders)
	})

	t.Run("lost customer create race re-reads the winner", func(t *testing.T) {
		customers := newMockCustomerRepo()
		winner := customers.addExisting("Winner", "5550100006")
		// The initial lookup misses, the create loses the race, the re-read
		// finds the winner.
		customers.getMisses["5550100006"] = 1
		customers.createErr["5550100006"] = customer.ErrPhoneTaken
		workOrders := newMockWorkOrderRepo()
		svc := NewWorkOrderImportService(workOrders, customers)

		csv := "title,customer_name,customer_phone\nJob,Racer,5550100006\n"
		report, err := svc.Import(ctx, strings.NewReader(csv), createdBy)
		require.NoError(t, err)
		require.Equal(t, 1, report.ImportedCount)
		for _, wo := range workOrders.orders {
			require.Equal(t, winner.ID(), wo.CustomerID())
		}
	})
}
