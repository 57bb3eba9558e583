package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/99minutos/exercise-tracker/internal/core/domain"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID      map[string]*domain.User
	order     []string
	findCalls int
	createErr error
	listErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	u.ID = fmt.Sprintf("u%03d", len(r.order)+1)
	clone := *u
	r.byID[u.ID] = &clone
	r.order = append(r.order, u.ID)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.findCalls++
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.User
	for _, id := range r.order {
		clone := *r.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

type stubExerciseRepo struct {
	stored     []*domain.Exercise
	lastFilter ports.ExerciseFilter
	createErr  error
}

func (r *stubExerciseRepo) Create(_ context.Context, e *domain.Exercise) error {
	if r.createErr != nil {
		return r.createErr
	}
	e.ID = fmt.Sprintf("e%03d", len(r.stored)+1)
	clone := *e
	r.stored = append(r.stored, &clone)
	return nil
}

// Find applies the same filters the real Mongo repo would use.
func (r *stubExerciseRepo) Find(_ context.Context, f ports.ExerciseFilter) ([]*domain.Exercise, error) {
	r.lastFilter = f
	var matched []*domain.Exercise
	for _, e := range r.stored {
		if e.UserID != f.UserID {
			continue
		}
		if !f.From.IsZero() && e.Date.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.Date.After(f.To) {
			continue
		}
		clone := *e
		matched = append(matched, &clone)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
	return matched, nil
}

type stubCache struct {
	users  map[string]*domain.User
	getErr error
	setErr error
	sets   int
}

func newStubCache() *stubCache {
	return &stubCache{users: make(map[string]*domain.User)}
}

func (c *stubCache) Get(_ context.Context, id string) (*domain.User, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	u, ok := c.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (c *stubCache) Set(_ context.Context, u *domain.User) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	clone := *u
	c.users[u.ID] = &clone
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

var errStoreDown = errors.New("mongo unavailable")
