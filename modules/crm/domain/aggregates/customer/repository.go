package customer

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound   = errors.New("customer not found")
	ErrPhoneTaken = errors.New("phone number already taken")
)

type FindParams struct {
	Q      string
	Limit  int
	Offset int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Customer, int64, error)
	GetByID(ctx context.Context, id uint) (Customer, error)
	GetByPhone(ctx context.Context, phone string) (Customer, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, c Customer) (Customer, error)
	Delete(ctx context.Context, id uint) error
}
