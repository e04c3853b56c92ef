package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/commands/bus"
	"composer2/application/ports"
	"composer2/application/state"
	"composer2/domain/core/validators"
	"composer2/domain/core/valueobjects"
	"composer2/domain/events"
	pkgerrors "composer2/pkg/errors"
	"composer2/pkg/observability"
)

// SavePostHandler commits the live draft to the post API. Validation,
// including the past-date check, runs locally first; an invalid draft
// never generates a network call.
type SavePostHandler struct {
	registry  *state.Registry
	posts     ports.PostService
	validator *validators.DraftValidator
	publisher ports.EventPublisher
	metrics   *observability.Metrics
	logger    *zap.Logger
	resyncer  cacheResync
}

// NewSavePostHandler creates the handler
func NewSavePostHandler(
	registry *state.Registry,
	posts ports.PostService,
	cache ports.PostCache,
	validator *validators.DraftValidator,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SavePostHandler {
	return &SavePostHandler{
		registry:  registry,
		posts:     posts,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		resyncer:  cacheResync{posts: posts, cache: cache, logger: logger},
	}
}

// Handle implements the CommandHandler interface
func (h *SavePostHandler) Handle(ctx context.Context, cmd bus.Command) error {
	saveCmd, ok := cmd.(commands.SavePostCommand)
	if !ok {
		return pkgerrors.NewInternalError("invalid command type for SavePostHandler")
	}

	store := h.registry.ForUser(saveCmd.UserID)
	draft := store.LiveDraft()
	draft.Status = saveCmd.Status
	draft.Hashtag = valueobjects.FormatHashtagsForSubmission(draft.Hashtag)

	if len(draft.Platforms) == 0 {
		h.metrics.RecordSaveOutcome(ctx, false)
		return pkgerrors.NewValidationError("select at least one platform before saving")
	}

	if err := h.validator.ValidateForSave(draft, time.Now()); err != nil {
		h.metrics.RecordSaveOutcome(ctx, false)
		return err
	}

	created := !draft.IsPersisted()

	persisted, err := h.posts.Save(ctx, draft)
	if err != nil {
		h.metrics.RecordSaveOutcome(ctx, false)
		return pkgerrors.Wrap(err, "post save failed")
	}

	h.metrics.RecordSaveOutcome(ctx, true)
	h.logger.Info("post saved",
		zap.String("user_id", saveCmd.UserID),
		zap.String("post_id", persisted.ID),
		zap.String("status", persisted.Status),
		zap.Bool("created", created),
	)

	if postID, idErr := valueobjects.NewPostIDFromString(persisted.ID); idErr == nil {
		h.publish(ctx, events.NewPostSaved(postID, saveCmd.UserID, persisted.Status, created, time.Now()))
	}

	// The composer starts over once its content is safely persisted.
	store.ResetLiveDraft()

	h.resyncer.resync(ctx, saveCmd.UserID, saveCmd.Window)
	return nil
}

func (h *SavePostHandler) publish(ctx context.Context, event events.DomainEvent) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("event publish failed",
			zap.String("event_type", event.GetEventType()),
			zap.Error(err),
		)
	}
}
