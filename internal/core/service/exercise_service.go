package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/exercise-tracker/internal/api/metrics"
	"github.com/99minutos/exercise-tracker/internal/core/domain"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

type ExerciseService struct {
	users     ports.UserRepository
	exercises ports.ExerciseRepository
	cache     ports.UserCache
	now       func() time.Time
	logger    zerolog.Logger
}

func NewExerciseService(
	users ports.UserRepository,
	exercises ports.ExerciseRepository,
	cache ports.UserCache,
	logger zerolog.Logger,
) *ExerciseService {
	if cache == nil {
		cache = NopUserCache{}
	}
	return &ExerciseService{
		users:     users,
		exercises: exercises,
		cache:     cache,
		now:       time.Now,
		logger:    logger,
	}
}

// AddExercise logs an exercise for an existing user. An empty date means today (UTC).
// The user is resolved before the input is validated, so an unknown id always
// yields ErrUserNotFound.
func (s *ExerciseService) AddExercise(ctx context.Context, in ports.AddExerciseInput) (*ports.ExerciseResult, error) {
	user, err := resolveUser(ctx, in.UserID, s.users, s.cache, s.logger)
	if err != nil {
		return nil, fmt.Errorf("add exercise: %w", err)
	}

	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	duration, err := domain.ParseMinutes(in.Duration)
	if err != nil {
		return nil, err
	}
	date := domain.CalendarDay(s.now().UTC())
	if in.Date != "" {
		if date, err = domain.ParseDate(in.Date); err != nil {
			return nil, err
		}
	}

	exercise := &domain.Exercise{
		UserID:      user.ID,
		Description: in.Description,
		Duration:    duration,
		Date:        date,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to log exercise")
		return nil, fmt.Errorf("add exercise: %w", err)
	}

	metrics.ExercisesLoggedTotal.Inc()
	s.logger.Info().
		Str("user_id", user.ID).
		Str("exercise_id", exercise.ID).
		Int("duration", exercise.Duration).
		Msg("exercise logged")

	return &ports.ExerciseResult{
		ID:          user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
	}, nil
}

// QueryLogs returns the user's exercises within the optional inclusive date
// range, truncated to Limit when it is positive. As in AddExercise, the user is
// resolved first.
func (s *ExerciseService) QueryLogs(ctx context.Context, in ports.LogQueryInput) (*ports.ExerciseLog, error) {
	user, err := resolveUser(ctx, in.UserID, s.users, s.cache, s.logger)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}

	filter := ports.ExerciseFilter{UserID: user.ID}
	if in.From != "" {
		if filter.From, err = domain.ParseDate(in.From); err != nil {
			return nil, err
		}
	}
	if in.To != "" {
		if filter.To, err = domain.ParseDate(in.To); err != nil {
			return nil, err
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, fmt.Errorf("%w: from must not be after to", domain.ErrInvalidInput)
	}
	if filter.Limit, err = parseLimit(in.Limit); err != nil {
		return nil, err
	}

	exercises, err := s.exercises.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}

	// The store applies the limit too; this keeps the contract independent of it.
	if filter.Limit > 0 && len(exercises) > filter.Limit {
		exercises = exercises[:filter.Limit]
	}

	entries := make([]ports.LogEntry, 0, len(exercises))
	for _, e := range exercises {
		entries = append(entries, ports.LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		})
	}

	filtered := !filter.From.IsZero() || !filter.To.IsZero()
	metrics.LogQueriesTotal.WithLabelValues(strconv.FormatBool(filtered)).Inc()
	metrics.LogEntriesReturned.Observe(float64(len(entries)))

	return &ports.ExerciseLog{
		ID:       user.ID,
		Username: user.Username,
		From:     filter.From,
		To:       filter.To,
		Count:    len(entries),
		Log:      entries,
	}, nil
}

func parseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidInput)
	}
	return n, nil
}
