package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"composer2/application/chat"
	"composer2/application/state"
	"composer2/domain/core/entities"
	"composer2/pkg/auth"
	"composer2/pkg/utils"
)

// ChatHandler handles conversation HTTP requests
type ChatHandler struct {
	registry *state.Registry
	turns    *chat.TurnController
	history  *chat.HistoryService
	logger   *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	registry *state.Registry,
	turns *chat.TurnController,
	history *chat.HistoryService,
	logger *zap.Logger,
) *ChatHandler {
	return &ChatHandler{
		registry: registry,
		turns:    turns,
		history:  history,
		logger:   logger,
	}
}

// SendMessageRequest represents the request body for one exchange
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	View    string `json:"view,omitempty"`
}

// SendMessageResponse represents the result of one exchange
type SendMessageResponse struct {
	Messages          []entities.Message `json:"messages"`
	DraftMerged       bool               `json:"draftMerged"`
	RefreshOnboarding bool               `json:"refreshOnboarding"`
}

// SendMessage handles POST /chat/messages
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
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

	message := strings.TrimSpace(req.Message)
	if message == "" {
		respondError(w, h.logger, http.StatusBadRequest, "Message is empty")
		return
	}

	store := h.registry.ForUser(userCtx.UserID)
	if store.Thinking() {
		respondError(w, h.logger, http.StatusConflict, "A previous message is still processing")
		return
	}

	result, err := h.turns.Run(r.Context(), chat.TurnInput{
		Store:   store,
		Message: message,
		View:    req.View,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, SendMessageResponse{
		Messages:          result.Appended,
		DraftMerged:       result.DraftMerged,
		RefreshOnboarding: result.RefreshOnboarding,
	})
}

// BootstrapRequest represents the request body for opening the conversation
type BootstrapRequest struct {
	View string `json:"view,omitempty"`
}

// Bootstrap handles POST /chat/bootstrap. It speaks to the assistant
// on the user's behalf so a fresh session opens with a greeting.
func (h *ChatHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req BootstrapRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	store := h.registry.ForUser(userCtx.UserID)
	result, err := h.turns.Bootstrap(r.Context(), store, req.View)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, SendMessageResponse{
		Messages:          result.Appended,
		DraftMerged:       result.DraftMerged,
		RefreshOnboarding: result.RefreshOnboarding,
	})
}

// GetHistory handles GET /chat/history
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	store := h.registry.ForUser(userCtx.UserID)
	messages, err := h.history.Load(r.Context(), store)
	if err != nil {
		h.logger.Error("Failed to load chat history",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to load chat history")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"thinking": store.Thinking(),
	})
}

// ResetHistory handles DELETE /chat/history
func (h *ChatHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, h.logger, http.StatusUnauthorized, "Unauthorized")
		return
	}

	store := h.registry.ForUser(userCtx.UserID)
	if err := h.history.Reset(r.Context(), store); err != nil {
		h.logger.Error("Failed to reset chat history",
			zap.String("userID", userCtx.UserID),
			zap.Error(err),
		)
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to reset chat history")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Chat history cleared",
	})
}
