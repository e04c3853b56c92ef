package handlers

import (
	"context"
	"sync"
	"time"

	"composer2/application/ports"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	"composer2/domain/events"
	pkgerrors "composer2/pkg/errors"
)

// mockPostService records calls and returns configurable results.
type mockPostService struct {
	mu sync.Mutex

	saveErr   error
	deleteErr error
	listErr   error
	listPosts []ports.PersistedPost

	savedDrafts []entities.Draft
	deletedIDs  []valueobjects.PostID
	listFilters []ports.PostFilter

	// nextID is assigned to saves of unpersisted drafts.
	nextID string
}

func (m *mockPostService) Save(ctx context.Context, draft entities.Draft) (ports.PersistedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return ports.PersistedPost{}, m.saveErr
	}
	m.savedDrafts = append(m.savedDrafts, draft)

	id := draft.ID.String()
	if id == "" {
		id = m.nextID
	}
	platforms := make([]string, 0, len(draft.Platforms))
	for _, p := range draft.Platforms {
		platforms = append(platforms, string(p))
	}
	return ports.PersistedPost{
		ID:           id,
		UserID:       draft.UserID,
		Title:        draft.Title,
		Content:      draft.Content,
		Hashtag:      draft.Hashtag,
		MediaURLs:    draft.MediaURLs,
		Platforms:    platforms,
		Kind:         string(draft.Kind),
		Status:       string(draft.Status),
		ScheduleDate: draft.ScheduleDate,
	}, nil
}

func (m *mockPostService) Delete(ctx context.Context, id valueobjects.PostID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockPostService) List(ctx context.Context, filter ports.PostFilter) ([]ports.PersistedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFilters = append(m.listFilters, filter)
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.listPosts, nil
}

func (m *mockPostService) networkCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.savedDrafts) + len(m.deletedIDs) + len(m.listFilters)
}

// mockPostCache is an in-memory cache that records invalidations.
type mockPostCache struct {
	mu      sync.Mutex
	entries map[string][]ports.PersistedPost
	deleted []string
	set     []string
}

func newMockPostCache() *mockPostCache {
	return &mockPostCache{entries: make(map[string][]ports.PersistedPost)}
}

func (c *mockPostCache) Get(ctx context.Context, key string) ([]ports.PersistedPost, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	posts, ok := c.entries[key]
	return posts, ok
}

func (c *mockPostCache) Set(ctx context.Context, key string, posts []ports.PersistedPost, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = posts
	c.set = append(c.set, key)
	return nil
}

func (c *mockPostCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// recordingPublisher collects published events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, batch...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

// readyDraft builds a draft that passes every pre-save check.
func readyDraft(userID string) entities.Draft {
	draft := entities.NewDraft(userID)
	draft.Title = "Launch"
	draft.Content = "We are live."
	draft.Platforms = []valueobjects.Platform{valueobjects.PlatformInstagram}
	draft.ScheduleDate = time.Now().Add(24 * time.Hour)
	return draft
}

var errRemote = pkgerrors.NewExternalError("post-api", nil)
