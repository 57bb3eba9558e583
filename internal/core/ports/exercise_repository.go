package ports

import (
	"context"
	"time"

	"github.com/99minutos/exercise-tracker/internal/core/domain"
)

// ExerciseFilter carries the query for a user's exercise log.
type ExerciseFilter struct {
	UserID string
	From   time.Time // optional: date >= From
	To     time.Time // optional: date <= To
	Limit  int       // <= 0 means unlimited
}

// ExerciseRepository defines persistence operations for exercises.
type ExerciseRepository interface {
	Create(ctx context.Context, e *domain.Exercise) error
	// Find returns the user's exercises ordered by date ascending.
	Find(ctx context.Context, filter ExerciseFilter) ([]*domain.Exercise, error)
}
