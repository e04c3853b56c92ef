package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/ports"
	"composer2/application/state"
	"composer2/domain/core/entities"
	"composer2/domain/core/validators"
	"composer2/domain/core/valueobjects"
	pkgerrors "composer2/pkg/errors"
	"composer2/pkg/observability"
)

func newSaveHandler(posts *mockPostService, cache *mockPostCache, publisher *recordingPublisher) (*SavePostHandler, *state.Registry) {
	registry := state.NewRegistry()
	handler := NewSavePostHandler(
		registry,
		posts,
		cache,
		validators.NewDraftValidator(),
		publisher,
		observability.NewMetrics("test", nil),
		zap.NewNop(),
	)
	return handler, registry
}

func TestSavePostCreatesWhenUnpersisted(t *testing.T) {
	posts := &mockPostService{nextID: "64f0c2a1b3d4e5f601234567"}
	cache := newMockPostCache()
	publisher := &recordingPublisher{}
	handler, registry := newSaveHandler(posts, cache, publisher)

	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(readyDraft("user-1"))

	window := valueobjects.MonthWindow(2025, time.March)
	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusScheduled,
		Window: window,
	})
	require.NoError(t, err)

	require.Len(t, posts.savedDrafts, 1)
	sent := posts.savedDrafts[0]
	assert.True(t, sent.ID.IsZero())
	assert.Equal(t, entities.StatusScheduled, sent.Status)

	assert.Contains(t, publisher.eventTypes(), "post.saved")

	// The composer starts over after a successful save.
	assert.False(t, store.LiveDraft().IsPersisted())
	assert.Empty(t, store.LiveDraft().Title)
}

func TestSavePostUpdatesWhenPersisted(t *testing.T) {
	posts := &mockPostService{}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	id, err := valueobjects.NewPostIDFromString("64f0c2a1b3d4e5f601234567")
	require.NoError(t, err)

	draft := readyDraft("user-1")
	draft.ID = id
	registry.ForUser("user-1").ReplaceLiveDraft(draft)

	err = handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.NoError(t, err)

	require.Len(t, posts.savedDrafts, 1)
	assert.Equal(t, id, posts.savedDrafts[0].ID)
}

func TestSavePostNormalizesHashtagsForSubmission(t *testing.T) {
	posts := &mockPostService{nextID: "abc123"}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	draft := readyDraft("user-1")
	draft.Hashtag = "#sale sale #Today"
	registry.ForUser("user-1").ReplaceLiveDraft(draft)

	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.NoError(t, err)

	require.Len(t, posts.savedDrafts, 1)
	assert.Equal(t, "#sale #Today", posts.savedDrafts[0].Hashtag)
}

func TestSavePostRejectsPastScheduleBeforeAnyNetworkCall(t *testing.T) {
	posts := &mockPostService{}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	draft := readyDraft("user-1")
	draft.ScheduleDate = time.Now().Add(-time.Hour)
	registry.ForUser("user-1").ReplaceLiveDraft(draft)

	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusScheduled,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))

	assert.Equal(t, 0, posts.networkCalls())
	assert.Empty(t, cache.deleted)
}

func TestSavePostRequiresAPlatform(t *testing.T) {
	posts := &mockPostService{}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	draft := readyDraft("user-1")
	draft.Platforms = nil
	registry.ForUser("user-1").ReplaceLiveDraft(draft)

	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, 0, posts.networkCalls())
}

func TestSavePostKeepsDraftOnRemoteFailure(t *testing.T) {
	posts := &mockPostService{saveErr: errRemote}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(readyDraft("user-1"))

	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: valueobjects.MonthWindow(2025, time.March),
	})
	require.Error(t, err)

	// Nothing was reset, nothing was resynchronized.
	assert.Equal(t, "Launch", store.LiveDraft().Title)
	assert.Empty(t, cache.deleted)
}

func TestSavePostResynchronizesEveryStatusBucket(t *testing.T) {
	posts := &mockPostService{nextID: "abc123"}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	registry.ForUser("user-1").ReplaceLiveDraft(readyDraft("user-1"))

	window := valueobjects.MonthWindow(2025, time.March)
	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusDraft,
		Window: window,
	})
	require.NoError(t, err)

	for _, status := range []entities.PostStatus{entities.StatusDraft, entities.StatusScheduled, entities.StatusPublic} {
		key := ports.CacheKey("user-1", status, window)
		assert.Contains(t, cache.deleted, key)
		assert.Contains(t, cache.set, key)
	}
	// One save plus three refetches.
	require.Len(t, posts.listFilters, 3)
}

func TestSavePostSkipsResyncWithoutWindow(t *testing.T) {
	posts := &mockPostService{nextID: "abc123"}
	cache := newMockPostCache()
	handler, registry := newSaveHandler(posts, cache, &recordingPublisher{})

	registry.ForUser("user-1").ReplaceLiveDraft(readyDraft("user-1"))

	err := handler.Handle(context.Background(), commands.SavePostCommand{
		UserID: "user-1",
		Status: entities.StatusDraft,
	})
	require.NoError(t, err)

	assert.Empty(t, cache.deleted)
	assert.Empty(t, posts.listFilters)
}
