package ports

import (
	"context"

	"github.com/99minutos/exercise-tracker/internal/core/domain"
)

// UserCache is a read-through lookup cache for users. Get reports a miss with
// (nil, nil).
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
}
