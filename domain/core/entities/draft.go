package entities

import (
	"time"

	"composer2/domain/core/valueobjects"
)

// PostStatus represents the publication state of a post.
// The wire vocabulary is shared with the post API: the dashboard's
// past/upcoming/drafts tabs map onto public/schedule/draft.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "schedule"
	StatusPublic    PostStatus = "public"
)

// IsValid reports whether the status is part of the wire vocabulary
func (s PostStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublic:
		return true
	}
	return false
}

// PostKind represents the content format of a post
type PostKind string

const (
	KindPost  PostKind = "post"
	KindStory PostKind = "story"
	KindReel  PostKind = "reel"
)

// IsValid reports whether the kind is a known content format
func (k PostKind) IsValid() bool {
	switch k {
	case KindPost, KindStory, KindReel:
		return true
	}
	return false
}

// Draft is the live post under composition: the single working copy
// that the composer, the chat turn controller, and the persistence
// synchronizer all read and mutate. The backend owns the canonical
// copy; nothing here is authoritative until a server round-trip
// confirms it.
type Draft struct {
	ID                  valueobjects.PostID     `json:"_id"`
	UserID              string                  `json:"userId"`
	Title               string                  `json:"title"`
	Content             string                  `json:"content"`
	Hashtag             string                  `json:"hashtag"`
	MediaURLs           []string                `json:"mediaUrl"`
	Platforms           []valueobjects.Platform `json:"platform"`
	Kind                PostKind                `json:"postType"`
	Status              PostStatus              `json:"status"`
	ScheduleDate        time.Time               `json:"scheduleDate"`
	InstagramLocationID string                  `json:"instagramLocationId"`
	FacebookLocationID  string                  `json:"facebookLocationId"`
}

// defaultScheduleLead is how far into the future a fresh draft is
// scheduled, so an untouched draft never trips the past-date guard.
const defaultScheduleLead = time.Hour

// NewDraft creates the default empty draft for a user
func NewDraft(userID string) Draft {
	return Draft{
		ID:           valueobjects.ZeroPostID(),
		UserID:       userID,
		MediaURLs:    []string{},
		Platforms:    []valueobjects.Platform{},
		Kind:         KindPost,
		Status:       StatusDraft,
		ScheduleDate: time.Now().Add(defaultScheduleLead),
	}
}

// DraftPatch is a partial update of a draft. Only non-nil fields are
// applied; everything else is left untouched. Last write wins at the
// granularity of supplied fields.
type DraftPatch struct {
	ID                  *valueobjects.PostID
	Title               *string
	Content             *string
	Hashtag             *string
	MediaURLs           *[]string
	Platforms           *[]valueobjects.Platform
	Kind                *PostKind
	Status              *PostStatus
	ScheduleDate        *time.Time
	InstagramLocationID *string
	FacebookLocationID  *string
}

// Apply merges the patch into the draft, field by field
func (p DraftPatch) Apply(d *Draft) {
	if p.ID != nil {
		d.ID = *p.ID
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Content != nil {
		d.Content = *p.Content
	}
	if p.Hashtag != nil {
		d.Hashtag = *p.Hashtag
	}
	if p.MediaURLs != nil {
		d.MediaURLs = append([]string{}, (*p.MediaURLs)...)
	}
	if p.Platforms != nil {
		d.Platforms = append([]valueobjects.Platform{}, (*p.Platforms)...)
	}
	if p.Kind != nil {
		d.Kind = *p.Kind
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.ScheduleDate != nil {
		d.ScheduleDate = *p.ScheduleDate
	}
	if p.InstagramLocationID != nil {
		d.InstagramLocationID = *p.InstagramLocationID
	}
	if p.FacebookLocationID != nil {
		d.FacebookLocationID = *p.FacebookLocationID
	}
}

// Clone returns a deep copy of the draft so callers can serialize or
// mutate a snapshot without racing the live copy
func (d Draft) Clone() Draft {
	c := d
	c.MediaURLs = append([]string{}, d.MediaURLs...)
	c.Platforms = append([]valueobjects.Platform{}, d.Platforms...)
	return c
}

// IsPersisted reports whether the draft has ever been accepted by the backend
func (d Draft) IsPersisted() bool {
	return !d.ID.IsZero()
}
