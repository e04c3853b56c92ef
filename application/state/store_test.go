package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
)

func TestNewStoreSeedsDefaultDraft(t *testing.T) {
	store := NewStore("user-1")

	draft := store.LiveDraft()
	assert.Equal(t, "user-1", draft.UserID)
	assert.True(t, draft.ID.IsZero())
	assert.Equal(t, entities.KindPost, draft.Kind)
	assert.Equal(t, entities.StatusDraft, draft.Status)
	assert.Empty(t, store.Messages())
	assert.False(t, store.Thinking())
}

func TestSetLiveDraftMergesOnlySuppliedFields(t *testing.T) {
	store := NewStore("user-1")

	title := "Launch day"
	store.SetLiveDraft(entities.DraftPatch{Title: &title})

	content := "We are live."
	merged := store.SetLiveDraft(entities.DraftPatch{Content: &content})

	assert.Equal(t, "Launch day", merged.Title)
	assert.Equal(t, "We are live.", merged.Content)
}

func TestLiveDraftReturnsIsolatedSnapshot(t *testing.T) {
	store := NewStore("user-1")

	media := []string{"https://cdn.example.com/a.jpg"}
	store.SetLiveDraft(entities.DraftPatch{MediaURLs: &media})

	snapshot := store.LiveDraft()
	snapshot.MediaURLs[0] = "mutated"
	snapshot.Title = "mutated"

	fresh := store.LiveDraft()
	assert.Equal(t, "https://cdn.example.com/a.jpg", fresh.MediaURLs[0])
	assert.Empty(t, fresh.Title)
}

func TestReplaceAndResetLiveDraft(t *testing.T) {
	store := NewStore("user-1")

	id, err := valueobjects.NewPostIDFromString("64f0c2a1b3d4e5f601234567")
	require.NoError(t, err)

	canonical := entities.NewDraft("user-1")
	canonical.ID = id
	canonical.Title = "Persisted"
	store.ReplaceLiveDraft(canonical)

	assert.True(t, store.LiveDraft().IsPersisted())
	assert.Equal(t, "Persisted", store.LiveDraft().Title)

	store.ResetLiveDraft()
	assert.False(t, store.LiveDraft().IsPersisted())
	assert.Empty(t, store.LiveDraft().Title)
}

func TestMessageLifecycle(t *testing.T) {
	store := NewStore("user-1")

	store.AppendMessage(entities.NewUserMessage("hello"))
	store.AppendMessage(entities.NewAssistantMessage("hi there"))
	require.Len(t, store.Messages(), 2)
	assert.Equal(t, entities.SenderUser, store.Messages()[0].Sender)

	loaded := []entities.Message{entities.NewSystemMessage("restored")}
	store.ReplaceMessages(loaded)
	require.Len(t, store.Messages(), 1)
	assert.Equal(t, "restored", store.Messages()[0].Text)

	store.ClearMessages()
	assert.Empty(t, store.Messages())
}

func TestNextTurnIsMonotonic(t *testing.T) {
	store := NewStore("user-1")

	assert.Equal(t, uint64(1), store.NextTurn())
	assert.Equal(t, uint64(2), store.NextTurn())
	assert.Equal(t, uint64(3), store.NextTurn())
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore("user-1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			title := "t"
			store.SetLiveDraft(entities.DraftPatch{Title: &title})
			store.AppendMessage(entities.NewUserMessage("msg"))
			store.NextTurn()
		}()
		go func() {
			defer wg.Done()
			_ = store.LiveDraft()
			_ = store.Messages()
			_ = store.Thinking()
		}()
	}
	wg.Wait()

	assert.Len(t, store.Messages(), 20)
}

func TestRegistryForUser(t *testing.T) {
	registry := NewRegistry()

	a := registry.ForUser("user-a")
	b := registry.ForUser("user-b")
	assert.NotSame(t, a, b)

	// Same user always resolves to the same store.
	assert.Same(t, a, registry.ForUser("user-a"))

	registry.Remove("user-a")
	assert.NotSame(t, a, registry.ForUser("user-a"))
}
