package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/commands/bus"
	"composer2/application/ports"
	"composer2/application/state"
	"composer2/domain/core/valueobjects"
	"composer2/domain/events"
	pkgerrors "composer2/pkg/errors"
)

// DeletePostHandler removes a persisted post. An empty identity is a
// no-op: nothing was ever persisted, so nothing is sent over the wire.
type DeletePostHandler struct {
	registry  *state.Registry
	posts     ports.PostService
	publisher ports.EventPublisher
	logger    *zap.Logger
	resyncer  cacheResync
}

// NewDeletePostHandler creates the handler
func NewDeletePostHandler(
	registry *state.Registry,
	posts ports.PostService,
	cache ports.PostCache,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *DeletePostHandler {
	return &DeletePostHandler{
		registry:  registry,
		posts:     posts,
		publisher: publisher,
		logger:    logger,
		resyncer:  cacheResync{posts: posts, cache: cache, logger: logger},
	}
}

// Handle implements the CommandHandler interface
func (h *DeletePostHandler) Handle(ctx context.Context, cmd bus.Command) error {
	deleteCmd, ok := cmd.(commands.DeletePostCommand)
	if !ok {
		return pkgerrors.NewInternalError("invalid command type for DeletePostHandler")
	}

	if deleteCmd.PostID == "" {
		h.logger.Debug("delete skipped for unpersisted post",
			zap.String("user_id", deleteCmd.UserID),
		)
		return nil
	}

	postID, err := valueobjects.NewPostIDFromString(deleteCmd.PostID)
	if err != nil {
		return err
	}

	if err := h.posts.Delete(ctx, postID); err != nil {
		return pkgerrors.Wrap(err, "post delete failed")
	}

	h.logger.Info("post deleted",
		zap.String("user_id", deleteCmd.UserID),
		zap.String("post_id", postID.String()),
	)

	if h.publisher != nil {
		event := events.NewPostDeleted(postID, deleteCmd.UserID, time.Now())
		if pubErr := h.publisher.Publish(ctx, event); pubErr != nil {
			h.logger.Warn("event publish failed",
				zap.String("event_type", event.GetEventType()),
				zap.Error(pubErr),
			)
		}
	}

	// If the composer was editing the deleted post, its working copy
	// no longer refers to anything.
	store := h.registry.ForUser(deleteCmd.UserID)
	if store.LiveDraft().ID.Equals(postID) {
		store.ResetLiveDraft()
	}

	h.resyncer.resync(ctx, deleteCmd.UserID, deleteCmd.Window)
	return nil
}
