package handlers

import (
	"context"

	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/commands/bus"
	"composer2/application/ports"
	"composer2/application/state"
	pkgerrors "composer2/pkg/errors"
)

// PatchPostHandler applies single-field composer edits. For a draft
// that has never been persisted the edit stays local. For a persisted
// post the edit round-trips through the post API and the live draft is
// overwritten with the server's canonical response, so derived fields
// computed by the backend are never lost.
type PatchPostHandler struct {
	registry *state.Registry
	posts    ports.PostService
	logger   *zap.Logger
}

// NewPatchPostHandler creates the handler
func NewPatchPostHandler(registry *state.Registry, posts ports.PostService, logger *zap.Logger) *PatchPostHandler {
	return &PatchPostHandler{
		registry: registry,
		posts:    posts,
		logger:   logger,
	}
}

// Handle implements the CommandHandler interface. It accepts every
// patch command type registered on the bus.
func (h *PatchPostHandler) Handle(ctx context.Context, cmd bus.Command) error {
	patch, ok := cmd.(commands.PatchCommand)
	if !ok {
		return pkgerrors.NewInternalError("invalid command type for PatchPostHandler")
	}

	store := h.registry.ForUser(patch.User())
	draft := store.LiveDraft()
	patch.Apply(&draft)

	if !draft.IsPersisted() {
		store.ReplaceLiveDraft(draft)
		return nil
	}

	persisted, err := h.posts.Save(ctx, draft)
	if err != nil {
		return pkgerrors.Wrap(err, "post update failed")
	}

	store.ReplaceLiveDraft(persisted.ToDraft())
	h.logger.Debug("post field patched",
		zap.String("user_id", patch.User()),
		zap.String("post_id", persisted.ID),
	)
	return nil
}
