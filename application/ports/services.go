package ports

import (
	"context"
	"time"

	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	"composer2/domain/events"
)

// AssistantReply is the decoded response of one assistant exchange
type AssistantReply struct {
	// Text is the assistant's conversational reply; empty when the
	// service produced nothing usable.
	Text string

	// HasPost signals that the reply carries post content to merge
	// into the live draft.
	HasPost bool

	// Post holds the returned content when HasPost is set.
	Post *AssistantPost
}

// AssistantPost is the post payload embedded in an assistant reply.
// Hashtag arrives from the service either as a raw string or as an
// array; the transport client flattens both into Hashtag.
type AssistantPost struct {
	Title   string
	Content string
	Hashtag string
}

// AssistantService is the remote conversational service ("Mark").
// This is a port in hexagonal architecture - the application doesn't
// know about the transport.
type AssistantService interface {
	// Chat runs one exchange: the user's message plus the serialized
	// current draft, returning the assistant's reply.
	Chat(ctx context.Context, userID, message string, draft entities.Draft) (AssistantReply, error)
}

// PersistedPost is the canonical representation owned by the post API.
// The live draft is only a working copy of this.
type PersistedPost struct {
	ID                  string    `json:"_id"`
	UserID              string    `json:"userId"`
	Title               string    `json:"title"`
	Content             string    `json:"content"`
	Hashtag             string    `json:"hashtag"`
	MediaURLs           []string  `json:"mediaUrl"`
	Platforms           []string  `json:"platform"`
	Kind                string    `json:"postType"`
	Status              string    `json:"status"`
	ScheduleDate        time.Time `json:"scheduleDate"`
	InstagramLocationID string    `json:"instagramLocationId,omitempty"`
	FacebookLocationID  string    `json:"facebookLocationId,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ToDraft converts the canonical record back into a working copy,
// used when a server response overwrites the live draft so derived
// fields are not lost
func (p PersistedPost) ToDraft() entities.Draft {
	id, _ := valueobjects.NewPostIDFromString(p.ID)

	platforms := make([]valueobjects.Platform, 0, len(p.Platforms))
	for _, name := range p.Platforms {
		if parsed, err := valueobjects.ParsePlatform(name); err == nil {
			platforms = append(platforms, parsed)
		}
	}

	media := p.MediaURLs
	if media == nil {
		media = []string{}
	}

	return entities.Draft{
		ID:                  id,
		UserID:              p.UserID,
		Title:               p.Title,
		Content:             p.Content,
		Hashtag:             p.Hashtag,
		MediaURLs:           media,
		Platforms:           platforms,
		Kind:                entities.PostKind(p.Kind),
		Status:              entities.PostStatus(p.Status),
		ScheduleDate:        p.ScheduleDate,
		InstagramLocationID: p.InstagramLocationID,
		FacebookLocationID:  p.FacebookLocationID,
	}
}

// PostFilter selects posts by status within an inclusive date window
type PostFilter struct {
	UserID string
	Status entities.PostStatus
	Window valueobjects.PeriodWindow
}

// PostService is the remote post API: create/update keyed by identity
// (empty identity means create), delete by identity, and list by filter
type PostService interface {
	// Save commits a draft and returns the canonical record.
	Save(ctx context.Context, draft entities.Draft) (PersistedPost, error)

	// Delete removes a post by identity.
	Delete(ctx context.Context, id valueobjects.PostID) error

	// List returns posts matching the filter, ordered by schedule date.
	List(ctx context.Context, filter PostFilter) ([]PersistedPost, error)
}

// TranscriptStore persists the chat transcript per user. The sequence
// is append-only; it is cleared only by an explicit history reset.
type TranscriptStore interface {
	// Append adds one message to the user's transcript.
	Append(ctx context.Context, userID string, msg entities.Message) error

	// History returns the full transcript ordered by creation time.
	History(ctx context.Context, userID string) ([]entities.Message, error)

	// Clear removes the user's transcript.
	Clear(ctx context.Context, userID string) error
}

// PostCache caches list query results per user, status, and window so
// the dashboard and calendar render from a consistent snapshot between
// resynchronizations
type PostCache interface {
	// Get retrieves a cached list result.
	Get(ctx context.Context, key string) ([]PersistedPost, bool)

	// Set stores a list result with TTL in seconds.
	Set(ctx context.Context, key string, posts []PersistedPost, ttl int) error

	// Delete invalidates one cached result.
	Delete(ctx context.Context, key string) error
}

// CacheKey builds the canonical cache key for a list query
func CacheKey(userID string, status entities.PostStatus, window valueobjects.PeriodWindow) string {
	return userID + "|" + string(status) + "|" + window.StartDate() + "|" + window.EndDate()
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Notifier pushes transcript messages to any live browser connections
// the user has open, so a second tab sees assistant replies without
// polling
type Notifier interface {
	// PushMessage delivers one transcript message to the user's connections.
	PushMessage(ctx context.Context, userID string, msg entities.Message) error
}
