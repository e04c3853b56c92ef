package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/commands/bus"
	"composer2/application/state"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	"composer2/pkg/auth"
	pkgerrors "composer2/pkg/errors"
	"composer2/pkg/utils"
)

// DraftHandler handles live draft HTTP requests. Free-text fields are
// merged locally; structural fields go through the command bus so a
// persisted post stays in sync with the backend.
type DraftHandler struct {
	registry   *state.Registry
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewDraftHandler creates a new draft handler
func NewDraftHandler(registry *state.Registry, commandBus *bus.CommandBus, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{
		registry:   registry,
		commandBus: commandBus,
		logger:     logger,
	}
}

// GetDraft handles GET /draft
func (h *DraftHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	store := h.registry.ForUser(userCtx.UserID)
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"draft":    store.LiveDraft(),
		"thinking": store.Thinking(),
	})
}

// UpdateDraftRequest represents a partial update of the composer's
// free-text fields. Only supplied fields change.
type UpdateDraftRequest struct {
	Title     *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Content   *string   `json:"content,omitempty" validate:"omitempty,max=10000"`
	Hashtag   *string   `json:"hashtag,omitempty" validate:"omitempty,max=500"`
	Platforms *[]string `json:"platform,omitempty" validate:"omitempty,max=10"`
}

// UpdateDraft handles PUT /draft
func (h *DraftHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	patch := entities.DraftPatch{
		Title:   req.Title,
		Content: req.Content,
		Hashtag: req.Hashtag,
	}

	if req.Platforms != nil {
		platforms, err := valueobjects.ParsePlatforms(*req.Platforms)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		patch.Platforms = &platforms
	}

	store := h.registry.ForUser(userCtx.UserID)
	draft := store.SetLiveDraft(patch)

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"draft": draft,
	})
}

// ResetDraft handles POST /draft/reset
func (h *DraftHandler) ResetDraft(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	store := h.registry.ForUser(userCtx.UserID)
	store.ResetLiveDraft()

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"draft": store.LiveDraft(),
	})
}

// PatchKindRequest changes the content format
type PatchKindRequest struct {
	Kind string `json:"postType" validate:"required,oneof=post story reel"`
}

// PatchKind handles PATCH /draft/kind
func (h *DraftHandler) PatchKind(w http.ResponseWriter, r *http.Request) {
	var req PatchKindRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.sendPatch(w, r, commands.PatchPostKindCommand{
		UserID: userCtx.UserID,
		Kind:   entities.PostKind(req.Kind),
	}, userCtx.UserID)
}

// PatchScheduleRequest changes the schedule date
type PatchScheduleRequest struct {
	ScheduleDate string `json:"scheduleDate" validate:"required"`
}

// PatchSchedule handles PATCH /draft/schedule
func (h *DraftHandler) PatchSchedule(w http.ResponseWriter, r *http.Request) {
	var req PatchScheduleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	scheduleDate, err := utils.ParseRFC3339(req.ScheduleDate)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid schedule date: "+err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.sendPatch(w, r, commands.PatchScheduleCommand{
		UserID:       userCtx.UserID,
		ScheduleDate: scheduleDate,
	}, userCtx.UserID)
}

// PatchMediaRequest replaces the attached media set
type PatchMediaRequest struct {
	MediaURLs []string `json:"mediaUrl" validate:"required,max=10"`
}

// PatchMedia handles PATCH /draft/media
func (h *DraftHandler) PatchMedia(w http.ResponseWriter, r *http.Request) {
	var req PatchMediaRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.sendPatch(w, r, commands.PatchMediaCommand{
		UserID:    userCtx.UserID,
		MediaURLs: req.MediaURLs,
	}, userCtx.UserID)
}

// PatchLocationRequest sets platform location tags
type PatchLocationRequest struct {
	InstagramLocationID *string `json:"instagramLocationId,omitempty"`
	FacebookLocationID  *string `json:"facebookLocationId,omitempty"`
}

// PatchLocation handles PATCH /draft/location
func (h *DraftHandler) PatchLocation(w http.ResponseWriter, r *http.Request) {
	var req PatchLocationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.sendPatch(w, r, commands.PatchLocationCommand{
		UserID:              userCtx.UserID,
		InstagramLocationID: req.InstagramLocationID,
		FacebookLocationID:  req.FacebookLocationID,
	}, userCtx.UserID)
}

func (h *DraftHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := utils.ValidateStruct(req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

func (h *DraftHandler) sendPatch(w http.ResponseWriter, r *http.Request, cmd bus.Command, userID string) {
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Warn("Draft patch failed",
			zap.String("userID", userID),
			zap.Error(err),
		)
		if pkgerrors.IsAppError(err) {
			respondAppError(w, h.logger, err)
		} else {
			respondError(w, h.logger, http.StatusBadRequest, err.Error())
		}
		return
	}

	store := h.registry.ForUser(userID)
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"draft": store.LiveDraft(),
	})
}
