package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/application/queries"
	"composer2/application/queries/bus"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	pkgerrors "composer2/pkg/errors"
)

// listCacheTTLSeconds is how long an on-demand list result stays cached.
const listCacheTTLSeconds = 300

// ListPostsHandler resolves the query's calendar window, serves from
// the post cache when possible, and falls back to the post API
type ListPostsHandler struct {
	posts  ports.PostService
	cache  ports.PostCache
	logger *zap.Logger
}

// NewListPostsHandler creates the handler
func NewListPostsHandler(posts ports.PostService, cache ports.PostCache, logger *zap.Logger) *ListPostsHandler {
	return &ListPostsHandler{
		posts:  posts,
		cache:  cache,
		logger: logger,
	}
}

// Handle implements the QueryHandler interface
func (h *ListPostsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	listQuery, ok := query.(queries.ListPostsQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type for ListPostsHandler")
	}

	window := resolveWindow(listQuery.View, listQuery.Reference)
	key := ports.CacheKey(listQuery.UserID, listQuery.Status, window)

	if cached, found := h.cache.Get(ctx, key); found {
		return &queries.ListPostsResult{
			Posts:     cached,
			Window:    window,
			FromCache: true,
		}, nil
	}

	posts, err := h.posts.List(ctx, ports.PostFilter{
		UserID: listQuery.UserID,
		Status: listQuery.Status,
		Window: window,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "post list failed")
	}

	if err := h.cache.Set(ctx, key, posts, listCacheTTLSeconds); err != nil {
		h.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}

	return &queries.ListPostsResult{
		Posts:  posts,
		Window: window,
	}, nil
}

// GetDashboardCountsHandler counts scheduled and published posts in
// one calendar window for the dashboard header
type GetDashboardCountsHandler struct {
	posts  ports.PostService
	cache  ports.PostCache
	logger *zap.Logger
}

// NewGetDashboardCountsHandler creates the handler
func NewGetDashboardCountsHandler(posts ports.PostService, cache ports.PostCache, logger *zap.Logger) *GetDashboardCountsHandler {
	return &GetDashboardCountsHandler{
		posts:  posts,
		cache:  cache,
		logger: logger,
	}
}

// Handle implements the QueryHandler interface
func (h *GetDashboardCountsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	countsQuery, ok := query.(queries.GetDashboardCountsQuery)
	if !ok {
		return nil, pkgerrors.NewInternalError("invalid query type for GetDashboardCountsHandler")
	}

	window := resolveWindow(countsQuery.View, countsQuery.Reference)

	scheduled, err := h.countForStatus(ctx, countsQuery.UserID, entities.StatusScheduled, window)
	if err != nil {
		return nil, err
	}

	published, err := h.countForStatus(ctx, countsQuery.UserID, entities.StatusPublic, window)
	if err != nil {
		return nil, err
	}

	return &queries.DashboardCounts{
		Scheduled: scheduled,
		Published: published,
		Window:    window,
	}, nil
}

func (h *GetDashboardCountsHandler) countForStatus(ctx context.Context, userID string, status entities.PostStatus, window valueobjects.PeriodWindow) (int, error) {
	key := ports.CacheKey(userID, status, window)
	if cached, found := h.cache.Get(ctx, key); found {
		return len(cached), nil
	}

	posts, err := h.posts.List(ctx, ports.PostFilter{
		UserID: userID,
		Status: status,
		Window: window,
	})
	if err != nil {
		return 0, pkgerrors.Wrap(err, "post list failed")
	}

	if err := h.cache.Set(ctx, key, posts, listCacheTTLSeconds); err != nil {
		h.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}

	return len(posts), nil
}

// resolveWindow maps a view and reference instant onto the inclusive
// calendar window the query covers
func resolveWindow(view valueobjects.PeriodView, ref time.Time) valueobjects.PeriodWindow {
	if view == valueobjects.PeriodViewWeek {
		return valueobjects.WeekWindow(ref)
	}
	return valueobjects.MonthWindow(ref.Year(), ref.Month())
}
