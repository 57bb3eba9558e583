package ports

import (
	"context"

	"github.com/99minutos/exercise-tracker/internal/core/domain"
)

// UserService registers and lists users.
type UserService interface {
	CreateUser(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
