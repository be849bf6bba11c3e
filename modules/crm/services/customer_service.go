package services

import (
	"context"

	"github.com/rsmhq/rsm/modules/crm/domain/aggregates/customer"
	"github.com/rsmhq/rsm/modules/crm/permissions"
)

type CustomerService struct {
	repo customer.Repository
}

func NewCustomerService(repo customer.Repository) *CustomerService {
	return &CustomerService{repo: repo}
}

func (s *CustomerService) GetPaginated(ctx context.Context, params *customer.FindParams) ([]customer.Customer, int64, error) {
	return s.repo.GetPaginated(ctx, params)
}

func (s *CustomerService) GetByID(ctx context.Context, id uint) (customer.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, dto *customer.CreateDTO) (customer.Customer, error) {
	if err := ensureCan(ctx, permissions.CustomerCreate); err != nil {
		return customer.Customer{}, err
	}
	var created customer.Customer
	err := runInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.repo.Create(txCtx, dto.ToEntity())
		return err
	})
	return created, err
}

func (s *CustomerService) Update(ctx context.Context, id uint, dto *customer.UpdateDTO) (customer.Customer, error) {
	if err := ensureCan(ctx, permissions.CustomerEdit); err != nil {
		return customer.Customer{}, err
	}
	var updated customer.Customer
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

func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if err := ensureCan(ctx, permissions.CustomerDelete); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
