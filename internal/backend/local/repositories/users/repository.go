package users

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/models"
)

// Account is a user row together with its password hash. The hash never
// leaves the backend package.
type Account struct {
	User         models.User
	PasswordHash string
}

type Repository interface {
	Create(ctx context.Context, acc *Account) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
