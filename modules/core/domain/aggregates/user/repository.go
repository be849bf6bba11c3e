package user

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	GetByID(ctx context.Context, id uint) (User, error)
	GetByToken(ctx context.Context, token string) (User, error)
}
