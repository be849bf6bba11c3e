package services

import (
	"context"
	"io"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/pkg/constants"
	"github.com/rsmhq/rsm/pkg/serrors"
)

const (
	reasonPhoneInDatabase = "Phone number already exists in database."
	reasonPhoneInFile     = "Phone number already exists in this CSV file."
)

var customerHeaderAliases = map[string][]string{
	"name":    {"name", "full_name", "customer_name", "client_name"},
	"phone":   {"phone", "phone_number", "contact", "telephone", "mobile"},
	"email":   {"email", "email_address", "e_mail", "e-mail"},
	"address": {"address", "location", "street_address"},
}

type customerRow struct {
	Name    string `validate:"required,max=255"`
	Phone   string `validate:"required"`
	Email   string `validate:"omitempty,email,max=255"`
	Address string `validate:"omitempty"`
}

var customerRowFieldOrder = []string{"Name", "Phone", "Email", "Address"}

type CustomerImportService struct {
	repo customer.Repository
}

func NewCustomerImportService(repo customer.Repository) *CustomerImportService {
	return &CustomerImportService{repo: repo}
}

// Import streams a customer CSV. Bad and duplicate rows are reported and
// skipped; only an unreadable header aborts the call. Each created customer
// is its own unit of work, so a mid-file failure leaves prior rows committed.
func (s *CustomerImportService) Import(ctx context.Context, r io.Reader) (ImportReport, error) {
	report := newImportReport()

	reader, err := newCSVReader(r, customerHeaderAliases)
	if err != nil {
		return report, err
	}

	// Phones confirmed present in storage before or during this run, and
	// phones created earlier within this same file.
	existingPhones := make(map[string]bool)
	csvPhones := make(map[string]bool)

	for {
		data, line, ok := reader.Next()
		if !ok {
			break
		}

		if v, present := data["phone"]; present {
			data["phone"] = customer.NormalizePhone(v)
		}

		row := customerRow{
			Name:    data["name"],
			Phone:   data["phone"],
			Email:   data["email"],
			Address: data["address"],
		}
		if err := constants.Validate.Struct(row); err != nil {
			messages := orderedMessages(
				serrors.ProcessValidatorErrors(err.(validator.ValidationErrors)),
				customerRowFieldOrder,
			)
			report.addFailed(line, data, messages)
			continue
		}

		if existingPhones[row.Phone] {
			report.addDuplicate(line, data, reasonPhoneInDatabase)
			continue
		}
		// Repeats within the file must be checked before storage: an earlier
		// row with this phone has already committed, so a storage lookup
		// would misreport the repeat as a database duplicate.
		if csvPhones[row.Phone] {
			report.addDuplicate(line, data, reasonPhoneInFile)
			continue
		}
		exists, err := s.repo.ExistsByPhone(ctx, row.Phone)
		if err != nil {
			report.addFailed(line, data, []string{"Failed to create customer: " + err.Error()})
			continue
		}
		if exists {
			existingPhones[row.Phone] = true
			report.addDuplicate(line, data, reasonPhoneInDatabase)
			continue
		}
		csvPhones[row.Phone] = true

		var created customer.Customer
		err = runInTx(ctx, func(txCtx context.Context) error {
			var inner error
			created, inner = s.repo.Create(txCtx, customer.New(row.Name, row.Phone, row.Email, row.Address))
			return inner
		})
		if err != nil {
			// A unique-constraint loss against a concurrent writer is still a
			// duplicate outcome, not a batch failure.
			if errors.Is(err, customer.ErrPhoneTaken) {
				delete(csvPhones, row.Phone)
				existingPhones[row.Phone] = true
				report.addDuplicate(line, data, reasonPhoneInDatabase)
				continue
			}
			// The phone stays marked as seen: a later row repeating it is an
			// in-file duplicate even though this one never committed.
			report.addFailed(line, data, []string{"Failed to create customer: " + err.Error()})
			continue
		}

		report.addImported(map[string]any{
			"name":    created.Name(),
			"phone":   created.Phone(),
			"email":   created.Email(),
			"address": created.Address(),
		})
	}

	return report, nil
}

func orderedMessages(errs serrors.ValidationErrors, fieldOrder []string) []string {
	out := make([]string, 0, len(errs))
	for _, field := range fieldOrder {
		if msg, ok := errs[field]; ok {
			out = append(out, msg)
		}
	}
	return out
}
