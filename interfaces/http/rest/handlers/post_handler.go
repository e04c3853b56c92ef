package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"composer2/application/commands"
	"composer2/application/commands/bus"
	"composer2/application/queries"
	querybus "composer2/application/queries/bus"
	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
	"composer2/pkg/auth"
	pkgerrors "composer2/pkg/errors"
	"composer2/pkg/utils"
)

// PostHandler handles post persistence HTTP requests
type PostHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// SavePostRequest represents the request body for committing the live draft
type SavePostRequest struct {
	Status    string `json:"status" validate:"required,oneof=draft schedule"`
	View      string `json:"view,omitempty" validate:"omitempty,oneof=month week"`
	Reference string `json:"reference,omitempty"`
}

// SavePost handles POST /posts
func (h *PostHandler) SavePost(w http.ResponseWriter, r *http.Request) {
	var req SavePostRequest
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

	window, err := parseWindow(req.View, req.Reference)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	cmd := commands.SavePostCommand{
		UserID: userCtx.UserID,
		Status: entities.PostStatus(req.Status),
		Window: window,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Warn("Failed to save post",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		if pkgerrors.IsAppError(err) {
			respondAppError(w, h.logger, err)
		} else {
			respondError(w, h.logger, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Post saved",
	})
}

// DeletePost handles DELETE /posts/{postID}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	window, err := parseWindow(r.URL.Query().Get("view"), r.URL.Query().Get("reference"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	cmd := commands.DeletePostCommand{
		UserID: userCtx.UserID,
		PostID: chi.URLParam(r, "postID"),
		Window: window,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.logger.Warn("Failed to delete post",
			zap.String("userID", userCtx.UserID),
			zap.String("postID", cmd.PostID),
			zap.Error(err),
		)
		if pkgerrors.IsAppError(err) {
			respondAppError(w, h.logger, err)
		} else {
			respondError(w, h.logger, http.StatusInternalServerError, "Failed to delete post")
		}
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Post deleted",
	})
}

// ListPosts handles GET /posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	status, err := statusFromParams(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	view, reference, err := parsePeriodParams(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	query := queries.ListPostsQuery{
		UserID:    userCtx.UserID,
		Status:    status,
		View:      view,
		Reference: reference,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list posts",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetCounts handles GET /posts/counts
func (h *PostHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	view, reference, err := parsePeriodParams(r)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	query := queries.GetDashboardCountsQuery{
		UserID:    userCtx.UserID,
		View:      view,
		Reference: reference,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get dashboard counts",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to get dashboard counts")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// statusFromParams resolves the status bucket from either a dashboard
// tab name or an explicit status value
func statusFromParams(r *http.Request) (entities.PostStatus, error) {
	if tab := r.URL.Query().Get("tab"); tab != "" {
		switch tab {
		case "past":
			return entities.StatusPublic, nil
		case "upcoming":
			return entities.StatusScheduled, nil
		case "drafts":
			return entities.StatusDraft, nil
		}
		return "", pkgerrors.NewValidationError("unknown tab: " + tab)
	}

	status := entities.PostStatus(r.URL.Query().Get("status"))
	if !status.IsValid() {
		return "", pkgerrors.NewValidationError("status or tab parameter is required")
	}
	return status, nil
}

// parsePeriodParams reads the view and reference query parameters.
// The reference defaults to today.
func parsePeriodParams(r *http.Request) (valueobjects.PeriodView, time.Time, error) {
	viewParam := r.URL.Query().Get("view")
	if viewParam == "" {
		viewParam = "month"
	}
	view, err := valueobjects.ParsePeriodView(viewParam)
	if err != nil {
		return "", time.Time{}, err
	}

	reference := time.Now()
	if ref := r.URL.Query().Get("reference"); ref != "" {
		reference, err = utils.ParseAPIDate(ref)
		if err != nil {
			return "", time.Time{}, pkgerrors.NewValidationError("invalid reference date: " + ref)
		}
	}
	return view, reference, nil
}

// parseWindow resolves the optional resync window carried by mutation
// requests. Both parameters empty means no resync.
func parseWindow(viewParam, referenceParam string) (valueobjects.PeriodWindow, error) {
	if viewParam == "" && referenceParam == "" {
		return valueobjects.PeriodWindow{}, nil
	}

	view, err := valueobjects.ParsePeriodView(viewParam)
	if err != nil {
		return valueobjects.PeriodWindow{}, err
	}

	reference := time.Now()
	if referenceParam != "" {
		reference, err = utils.ParseAPIDate(referenceParam)
		if err != nil {
			return valueobjects.PeriodWindow{}, pkgerrors.NewValidationError("invalid reference date: " + referenceParam)
		}
	}

	if view == valueobjects.PeriodViewWeek {
		return valueobjects.WeekWindow(reference), nil
	}
	return valueobjects.MonthWindow(reference.Year(), reference.Month()), nil
}
