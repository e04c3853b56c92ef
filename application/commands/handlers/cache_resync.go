package handlers

import (
	"context"

	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
)

// cacheTTLSeconds is how long a resynchronized list stays cached.
const cacheTTLSeconds = 300

// cacheResync refreshes the cached post lists for one calendar window
// after a mutation. Every status bucket is invalidated and refetched
// so the dashboard's drafts, upcoming, and past tabs all render from
// post-mutation state.
type cacheResync struct {
	posts  ports.PostService
	cache  ports.PostCache
	logger *zap.Logger
}

func (r *cacheResync) resync(ctx context.Context, userID string, window valueobjects.PeriodWindow) {
	if window.Start.IsZero() {
		return
	}

	statuses := []entities.PostStatus{
		entities.StatusDraft,
		entities.StatusScheduled,
		entities.StatusPublic,
	}

	for _, status := range statuses {
		key := ports.CacheKey(userID, status, window)
		if err := r.cache.Delete(ctx, key); err != nil {
			r.logger.Debug("cache invalidation failed", zap.String("key", key), zap.Error(err))
		}

		posts, err := r.posts.List(ctx, ports.PostFilter{
			UserID: userID,
			Status: status,
			Window: window,
		})
		if err != nil {
			// The stale entry is already gone; the next list query
			// will fetch fresh data on demand.
			r.logger.Warn("post list refetch failed",
				zap.String("user_id", userID),
				zap.String("status", string(status)),
				zap.Error(err),
			)
			continue
		}

		if err := r.cache.Set(ctx, key, posts, cacheTTLSeconds); err != nil {
			r.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
}
