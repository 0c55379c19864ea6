package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores accounts. Create reports ErrAlreadyExists for a taken
// email; lookups report ErrNotFound.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
