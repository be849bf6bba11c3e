package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
)

type mockCustomerRepo struct {
	byPhone map[string]customer.Customer
	nextID  uint
	// createErr, when set for a phone, fails the first Create attempt.
	createErr map[string]error
	// getMisses makes GetByPhone miss N times for a phone, simulating a
	// concurrent writer landing between lookup and create.
	getMisses map[string]int
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{
		byPhone:   map[string]customer.Customer{},
		nextID:    1,
		createErr: map[string]error{},
		getMisses: map[string]int{},
	}
}

func (m *mockCustomerRepo) addExisting(name, phone string) customer.Customer {
	c := customer.Hydrate(m.nextID, name, phone, "", "", time.Now(), time.Now())
	m.nextID++
	m.byPhone[c.Phone()] = c
	return c
}

func (m *mockCustomerRepo) GetPaginated(_ context.Context, _ *customer.FindParams) ([]customer.Customer, int64, error) {
	out := make([]customer.Customer, 0, len(m.byPhone))
	for _, c := range m.byPhone {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (m *mockCustomerRepo) GetByID(_ context.Context, id uint) (customer.Customer, error) {
	for _, c := range m.byPhone {
		if c.ID() == id {
			return c, nil
		}
	}
	return customer.Customer{}, customer.ErrNotFound
}

func (m *mockCustomerRepo) GetByPhone(_ context.Context, phone string) (customer.Customer, error) {
	normalized := customer.NormalizePhone(phone)
	if m.getMisses[normalized] > 0 {
		m.getMisses[normalized]--
		return customer.Customer{}, customer.ErrNotFound
	}
	c, ok := m.byPhone[normalized]
	if !ok {
		return customer.Customer{}, customer.ErrNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	_, ok := m.byPhone[customer.NormalizePhone(phone)]
	return ok, nil
}

func (m *mockCustomerRepo) Create(_ context.Context, c customer.Customer) (customer.Customer, error) {
	if err, ok := m.createErr[c.Phone()]; ok {
		delete(m.createErr, c.Phone())
		return customer.Customer{}, err
	}
	if _, ok := m.byPhone[c.Phone()]; ok {
		return customer.Customer{}, customer.ErrPhoneTaken
	}
	created := customer.Hydrate(m.nextID, c.Name(), c.Phone(), c.Email(), c.Address(), time.Now(), time.Now())
	m.nextID++
	m.byPhone[created.Phone()] = created
	return created, nil
}

func (m *mockCustomerRepo) Update(_ context.Context, c customer.Customer) (customer.Customer, error) {
	m.byPhone[c.Phone()] = c
	return c, nil
}

func (m *mockCustomerRepo) Delete(_ context.Context, id uint) error {
	for phone, c := range m.byPhone {
		if c.ID() == id {
			delete(m.byPhone, phone)
			return nil
		}
	}
	return customer.ErrNotFound
}

func TestCustomerImport(t *testing.T) {
	passthroughTx(t)
	ctx := context.Background()

	t.Run("imports valid rows with aliased headers", func(t *testing.T) {
		repo := newMockCustomerRepo()
		svc := NewCustomerImportService(repo)

		csv := strings.Join([]string{
			"Full Name,Phone Number,E-Mail,Location",
			"Ada Lovelace,+1 (555) 010-0001,ada@example.com,London",
			"Grace Hopper,555-010-0002,,",
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Equal(t, 2, report.ImportedCount)
		require.Len(t, report.ImportedData, 2)
		require.Zero(t, report.FailedCount)
		require.Zero(t, report.DuplicateCount)

		require.Equal(t, "Ada Lovelace", report.ImportedData[0]["name"])
		require.Equal(t, "15550100001", report.ImportedData[0]["phone"])

		stored, err := repo.GetByPhone(ctx, "15550100001")
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", stored.Email())
	})

	t.Run("reports validation failures in field order", func(t *testing.T) {
		repo := newMockCustomerRepo()
		svc := NewCustomerImportService(repo)

		csv := strings.Join([]string{
			"name,phone,email",
			",,not-an-email",
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Equal(t, 1, report.FailedCount)
		require.Len(t, report.FailedRows, 1)
		require.Equal(t, 2, report.FailedRows[0].LineNumber)
		require.Equal(t, []string{
			"The name field is required.",
			"The phone field is required.",
			"The email field must be a valid email address.",
		}, report.FailedRows[0].Errors)
	})

	t.Run("distinguishes database and in-file duplicates", func(t *testing.T) {
		repo := newMockCustomerRepo()
		repo.addExisting("Existing", "5550100009")
		svc := NewCustomerImportService(repo)

		csv := strings.Join([]string{
			"name,phone",
			"In DB,5550100009",
			"Fresh,5550100010",
			"Repeat,5550100010",
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Equal(t, 1, report.ImportedCount)
		require.Equal(t, 2, report.DuplicateCount)
		require.Len(t, report.DuplicateRows, 2)
		require.Equal(t, "Phone number already exists in database.", report.DuplicateRows[0].Reason)
		require.Equal(t, 2, report.DuplicateRows[0].LineNumber)
		require.Equal(t, "Phone number already exists in this CSV file.", report.DuplicateRows[1].Reason)
		require.Equal(t, 4, report.DuplicateRows[1].LineNumber)
	})

	t.Run("lost create race counts as database duplicate", func(t *testing.T) {
		repo := newMockCustomerRepo()
		repo.createErr["5550100011"] = customer.ErrPhoneTaken
		svc := NewCustomerImportService(repo)

		csv := "name,phone\nRacer,5550100011\n"
		report, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Zero(t, report.ImportedCount)
		require.Equal(t, 1, report.DuplicateCount)
		require.Equal(t, "Phone number already exists in database.", report.DuplicateRows[0].Reason)
	})

	t.Run("persistence failure becomes a failed row", func(t *testing.T) {
		repo := newMockCustomerRepo()
		repo.createErr["5550100012"] = errors.New("connection reset")
		svc := NewCustomerImportService(repo)

		csv := "name,phone\nUnlucky,5550100012\nLucky,5550100013\n"
		report, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Equal(t, 1, report.ImportedCount)
		require.Equal(t, 1, report.FailedCount)
		require.Equal(t, []string{"Failed to create customer: connection reset"}, report.FailedRows[0].Errors)
	})

	t.Run("phone stays an in-file duplicate after a failed create", func(t *testing.T) {
		repo := newMockCustomerRepo()
		repo.createErr["5550100014"] = errors.New("connection reset")
		svc := NewCustomerImportService(repo)

		csv := strings.Join([]string{
			"name,phone",
			"Unlucky,5550100014",
			"Retry,5550100014",
		}, "\n")

		report, err := svc.Import(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Zero(t, report.ImportedCount)
		require.Equal(t, 1, report.FailedCount)
		require.Equal(t, 1, report.DuplicateCount)
		require.Equal(t, "Phone number already exists in this CSV file.", report.DuplicateRows[0].Reason)
		require.Equal(t, 3, report.DuplicateRows[0].LineNumber)
	})

	t.Run("empty file is a file-level failure", func(t *testing.T) {
		svc := NewCustomerImportService(newMockCustomerRepo())
		_, err := svc.Import(ctx, strings.NewReader(""))
		require.ErrorIs(t, err, ErrUnreadableHeaders)
	})
}
