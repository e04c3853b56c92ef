package events

import (
	"time"

	"composer2/domain/core/valueobjects"
)

// Post Events

// PostSaved is raised after the backend accepts a create or update
type PostSaved struct {
	BaseEvent
	PostID  valueobjects.PostID `json:"post_id"`
	UserID  string              `json:"user_id"`
	Status  string              `json:"status"`
	Created bool                `json:"created"`
}

// NewPostSaved creates a PostSaved event
func NewPostSaved(postID valueobjects.PostID, userID, status string, created bool, timestamp time.Time) PostSaved {
	return PostSaved{
		BaseEvent: BaseEvent{
			AggregateID: postID.String(),
			EventType:   "post.saved",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID:  postID,
		UserID:  userID,
		Status:  status,
		Created: created,
	}
}

// PostDeleted is raised after the backend confirms a delete
type PostDeleted struct {
	BaseEvent
	PostID valueobjects.PostID `json:"post_id"`
	UserID string              `json:"user_id"`
}

// NewPostDeleted creates a PostDeleted event
func NewPostDeleted(postID valueobjects.PostID, userID string, timestamp time.Time) PostDeleted {
	return PostDeleted{
		BaseEvent: BaseEvent{
			AggregateID: postID.String(),
			EventType:   "post.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		PostID: postID,
		UserID: userID,
	}
}

// DraftMerged is raised when an assistant reply is folded into the live draft
type DraftMerged struct {
	BaseEvent
	UserID string `json:"user_id"`
	Turn   uint64 `json:"turn"`
}

// NewDraftMerged creates a DraftMerged event
func NewDraftMerged(userID string, turn uint64, timestamp time.Time) DraftMerged {
	return DraftMerged{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "draft.merged",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID: userID,
		Turn:   turn,
	}
}

// TurnCompleted is raised at the end of every assistant exchange,
// whatever its outcome
type TurnCompleted struct {
	BaseEvent
	UserID   string        `json:"user_id"`
	Turn     uint64        `json:"turn"`
	Duration time.Duration `json:"duration"`
	HasPost  bool          `json:"has_post"`
	Failed   bool          `json:"failed"`
}

// NewTurnCompleted creates a TurnCompleted event
func NewTurnCompleted(userID string, turn uint64, duration time.Duration, hasPost, failed bool, timestamp time.Time) TurnCompleted {
	return TurnCompleted{
		BaseEvent: BaseEvent{
			AggregateID: userID,
			EventType:   "chat.turn_completed",
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:   userID,
		Turn:     turn,
		Duration: duration,
		HasPost:  hasPost,
		Failed:   failed,
	}
}
