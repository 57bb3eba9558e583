package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/exercise-tracker/internal/api/metrics"
	"github.com/99minutos/exercise-tracker/internal/core/domain"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

// NopUserCache is used when no cache backend is configured.
type NopUserCache struct{}

func (NopUserCache) Get(context.Context, string) (*domain.User, error) { return nil, nil }
func (NopUserCache) Set(context.Context, *domain.User) error          { return nil }

// resolveUser reads through the cache. Cache failures are logged and the
// repository is consulted anyway; users never change, so a cached copy is
// always current.
func resolveUser(ctx context.Context, id string, repo ports.UserRepository, cache ports.UserCache, log zerolog.Logger) (*domain.User, error) {
	cached, err := cache.Get(ctx, id)
	switch {
	case err != nil:
		metrics.UserCacheTotal.WithLabelValues("error").Inc()
		log.Warn().Err(err).Str("user_id", id).Msg("user cache lookup failed, falling back to store")
	case cached != nil:
		metrics.UserCacheTotal.WithLabelValues("hit").Inc()
		return cached, nil
	default:
		metrics.UserCacheTotal.WithLabelValues("miss").Inc()
	}

	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cache.Set(ctx, user); err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("failed to populate user cache")
	}
	return user, nil
}
