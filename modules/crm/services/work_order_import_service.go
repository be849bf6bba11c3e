package services

import (
	"context"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/workorder"
	"github.com/rsmhq/rsm/pkg/constants"
	"github.com/rsmhq/rsm/pkg/serrors"
)

var workOrderHeaderAliases = map[string][]string{
	"title":          {"title", "work_order_title", "job_title", "subject"},
	"description":    {"description", "details", "notes", "work_order_description"},
	"customer_name":  {"customer_name", "customer", "name", "client_name"},
	"customer_phone": {"customer_phone", "phone", "mobile", "telephone", "cell"},
	"customer_email": {"customer_email", "email", "e-mail", "customer_e-mail"},
	"priority":       {"priority", "urgency", "importance"},
	"due_at":         {"due_at", "due_date", "deadline", "due"},
}

type workOrderRow struct {
	Title         string `validate:"required,max=255"`
	CustomerName  string `validate:"required,max=255"`
	CustomerPhone string `validate:"required"`
	CustomerEmail string `validate:"omitempty,email,max=255"`
	Priority      string `validate:"omitempty,oneof=low medium high"`
	Description   string `validate:"omitempty"`
	DueAt         string `validate:"omitempty"`
}

var workOrderRowFieldOrder = []string{
	"Title", "CustomerName", "CustomerPhone", "CustomerEmail", "Priority", "DueAt",
}

type WorkOrderImportService struct {
	workOrders workorder.Repository
	customers  customer.Repository
	now        func() time.Time
}

func NewWorkOrderImportService(workOrders workorder.Repository, customers customer.Repository) *WorkOrderImportService {
	return &WorkOrderImportService{
		workOrders: workOrders,
		customers:  customers,
		now:        time.Now,
	}
}

// Import streams a work-order CSV. Customers are matched by normalized phone
// and created on the fly when missing, so one file can carry brand-new
// clients and their first jobs together. Each row commits on its own.
func (s *WorkOrderImportService) Import(ctx context.Context, r io.Reader, createdBy uint) (ImportReport, error) {
	report := newImportReport()

	reader, err := newCSVReader(r, workOrderHeaderAliases)
	if err != nil {
		return report, err
	}

	// Customers resolved during this run, keyed by normalized phone.
	resolved := make(map[string]customer.Customer)

	for {
		data, line, ok := reader.Next()
		if !ok {
			break
		}

		if v, present := data["customer_phone"]; present {
			data["customer_phone"] = customer.NormalizePhone(v)
		}

		row := workOrderRow{
			Title:         data["title"],
			CustomerName:  data["customer_name"],
			CustomerPhone: data["customer_phone"],
			CustomerEmail: data["customer_email"],
			Priority:      data["priority"],
			Description:   data["description"],
			DueAt:         data["due_at"],
		}
		rowErrs := serrors.ValidationErrors{}
		if err := constants.Validate.Struct(row); err != nil {
			rowErrs = serrors.ProcessValidatorErrors(err.(validator.ValidationErrors))
		}
		var dueAt *time.Time
		if row.DueAt != "" {
			t, err := workorder.ParseDate(row.DueAt)
			if err != nil {
				rowErrs["DueAt"] = "The due at field must be a valid date."
			} else {
				dueAt = &t
			}
		}
		if len(rowErrs) > 0 {
			report.addFailed(line, data, orderedMessages(rowErrs, workOrderRowFieldOrder))
			continue
		}

		var created workorder.WorkOrder
		err = runInTx(ctx, func(txCtx context.Context) error {
			cust, err := s.resolveCustomer(txCtx, resolved, row)
			if err != nil {
				return err
			}
			created, err = s.workOrders.Create(txCtx, workorder.New(
				cust.ID(),
				row.Title,
				row.Description,
				workorder.Priority(row.Priority),
				dueAt,
				createdBy,
			))
			if err != nil {
				return err
			}
			seed := workorder.NewStatusHistory(created.ID(), nil, created.Status(), createdBy, s.now())
			_, err = s.workOrders.AddHistory(txCtx, seed)
			return err
		})
		if err != nil {
			report.addFailed(line, data, []string{"Failed to create work order: " + err.Error()})
			continue
		}

		report.addImported(map[string]any{
			"title":          created.Title(),
			"customer_name":  row.CustomerName,
			"customer_phone": row.CustomerPhone,
			"status":         string(created.Status()),
			"priority":       string(created.Priority()),
		})
	}

	return report, nil
}

// resolveCustomer finds the customer for a row by phone, creating one when
// the phone is unknown. A unique-violation on create means another writer got
// there first; the re-read then succeeds.
func (s *WorkOrderImportService) resolveCustomer(ctx context.Context, resolved map[string]customer.Customer, row workOrderRow) (customer.Customer, error) {
	if cust, ok := resolved[row.CustomerPhone]; ok {
		return cust, nil
	}
	cust, err := s.customers.GetByPhone(ctx, row.CustomerPhone)
	if err == nil {
		resolved[row.CustomerPhone] = cust
		return cust, nil
	}
	if !errors.Is(err, customer.ErrNotFound) {
		return customer.Customer{}, err
	}
	cust, err = s.customers.Create(ctx, customer.New(row.CustomerName, row.CustomerPhone, row.CustomerEmail, ""))
	if errors.Is(err, customer.ErrPhoneTaken) {
		cust, err = s.customers.GetByPhone(ctx, row.CustomerPhone)
	}
	if err != nil {
		return customer.Customer{}, err
	}
	resolved[row.CustomerPhone] = cust
	return cust, nil
}
