package usecase

import (
	"context"

	"job-tracker/internal/infrastructure/cache"

	"go.uber.org/zap"
)

type Cache interface {
	GetJSON(ctx context.Context, key cache.Key, out any) (bool, error)
	SetJSON(ctx context.Context, key cache.Key, value any) error
	InvalidateNamespace(ctx context.Context, ns cache.Namespace, userID int64) error
}

// cacheAside wraps a Cache so that backend failures degrade to a miss
// instead of failing the request.
type cacheAside struct {
	c   Cache
	log *zap.Logger
}

func newCacheAside(c Cache, log *zap.Logger) cacheAside {
	if log == nil {
		log = zap.NewNop()
	}
	return cacheAside{c: c, log: log}
}

func (a cacheAside) get(ctx context.Context, key cache.Key, out any) bool {
	if a.c == nil {
		return false
	}
	ok, err := a.c.GetJSON(ctx, key, out)
	if err != nil {
		a.log.Warn("cache read failed", zap.Stringer("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (a cacheAside) put(ctx context.Context, key cache.Key, value any) {
	if a.c == nil {
		return
	}
	if err := a.c.SetJSON(ctx, key, value); err != nil {
		a.log.Warn("cache write failed", zap.Stringer("key", key), zap.Error(err))
	}
}

func (a cacheAside) invalidate(ctx context.Context, userID int64, namespaces ...cache.Namespace) {
	if a.c == nil {
		return
	}
	for _, ns := range namespaces {
		if err := a.c.InvalidateNamespace(ctx, ns, userID); err != nil {
			a.log.Warn("cache invalidation failed",
				zap.String("namespace", string(ns)), zap.Int64("user_id", userID), zap.Error(err))
		}
	}
}
