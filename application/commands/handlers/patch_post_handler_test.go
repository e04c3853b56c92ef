package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/state"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
)

func newPatchHandler(posts *mockPostService) (*PatchPostHandler, *state.Registry) {
	registry := state.NewRegistry()
	handler := NewPatchPostHandler(registry, posts, zap.NewNop())
	return handler, registry
}

func TestPatchUnpersistedDraftStaysLocal(t *testing.T) {
	posts := &mockPostService{}
	handler, registry := newPatchHandler(posts)

	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(readyDraft("user-1"))

	err := handler.Handle(context.Background(), commands.PatchPostKindCommand{
		UserID: "user-1",
		Kind:   entities.KindReel,
	})
	require.NoError(t, err)

	assert.Equal(t, entities.KindReel, store.LiveDraft().Kind)
	assert.Equal(t, 0, posts.networkCalls())
}

func TestPatchPersistedPostRoundTrips(t *testing.T) {
	posts := &mockPostService{}
	handler, registry := newPatchHandler(posts)

	id, err := valueobjects.NewPostIDFromString("64f0c2a1b3d4e5f601234567")
	require.NoError(t, err)

	draft := readyDraft("user-1")
	draft.ID = id
	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(draft)

	newDate := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	err = handler.Handle(context.Background(), commands.PatchScheduleCommand{
		UserID:       "user-1",
		ScheduleDate: newDate,
	})
	require.NoError(t, err)

	require.Len(t, posts.savedDrafts, 1)
	assert.True(t, newDate.Equal(posts.savedDrafts[0].ScheduleDate))

	// The live draft now carries the server's canonical copy.
	live := store.LiveDraft()
	assert.Equal(t, id, live.ID)
	assert.True(t, newDate.Equal(live.ScheduleDate))
}

func TestPatchMediaReplacesWholeSet(t *testing.T) {
	posts := &mockPostService{}
	handler, registry := newPatchHandler(posts)

	draft := readyDraft("user-1")
	draft.MediaURLs = []string{"https://cdn.example.com/old.jpg"}
	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(draft)

	err := handler.Handle(context.Background(), commands.PatchMediaCommand{
		UserID:    "user-1",
		MediaURLs: []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
	}, store.LiveDraft().MediaURLs)
}

func TestPatchLocationSetsOnlySuppliedSide(t *testing.T) {
	posts := &mockPostService{}
	handler, registry := newPatchHandler(posts)

	draft := readyDraft("user-1")
	draft.FacebookLocationID = "fb-9"
	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(draft)

	igLoc := "ig-42"
	err := handler.Handle(context.Background(), commands.PatchLocationCommand{
		UserID:              "user-1",
		InstagramLocationID: &igLoc,
	})
	require.NoError(t, err)

	live := store.LiveDraft()
	assert.Equal(t, "ig-42", live.InstagramLocationID)
	assert.Equal(t, "fb-9", live.FacebookLocationID)
}

func TestPatchPersistedFailureLeavesDraftUntouched(t *testing.T) {
	posts := &mockPostService{saveErr: errRemote}
	handler, registry := newPatchHandler(posts)

	id, err := valueobjects.NewPostIDFromString("64f0c2a1b3d4e5f601234567")
	require.NoError(t, err)

	draft := readyDraft("user-1")
	draft.ID = id
	draft.Kind = entities.KindPost
	store := registry.ForUser("user-1")
	store.ReplaceLiveDraft(draft)

	err = handler.Handle(context.Background(), commands.PatchPostKindCommand{
		UserID: "user-1",
		Kind:   entities.KindStory,
	})
	require.Error(t, err)

	assert.Equal(t, entities.KindPost, store.LiveDraft().Kind)
}

func TestPatchCommandValidation(t *testing.T) {
	t.Run("kind must be known", func(t *testing.T) {
		cmd := commands.PatchPostKindCommand{UserID: "user-1", Kind: "carousel"}
		assert.Error(t, cmd.Validate())
	})

	t.Run("location needs at least one side", func(t *testing.T) {
		cmd := commands.PatchLocationCommand{UserID: "user-1"}
		assert.Error(t, cmd.Validate())
	})

	t.Run("schedule needs a date", func(t *testing.T) {
		cmd := commands.PatchScheduleCommand{UserID: "user-1"}
		assert.Error(t, cmd.Validate())
	})
}
