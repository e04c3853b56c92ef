package chat

import (
	"context"

	"go.uber.org/zap"

	"composer2/application/ports"
	"composer2/application/state"
	"composer2/domain/core/entities"
)

// HistoryService loads and resets the persisted transcript behind a
// user's in-memory conversation
type HistoryService struct {
	transcript ports.TranscriptStore
	logger     *zap.Logger
}

// NewHistoryService creates a history service
func NewHistoryService(transcript ports.TranscriptStore, logger *zap.Logger) *HistoryService {
	return &HistoryService{transcript: transcript, logger: logger}
}

// Load replaces the in-memory transcript with the persisted one and
// returns it
func (h *HistoryService) Load(ctx context.Context, store *state.Store) ([]entities.Message, error) {
	msgs, err := h.transcript.History(ctx, store.UserID())
	if err != nil {
		return nil, err
	}
	store.ReplaceMessages(msgs)
	return msgs, nil
}

// Reset clears both the persisted and the in-memory transcript
func (h *HistoryService) Reset(ctx context.Context, store *state.Store) error {
	if err := h.transcript.Clear(ctx, store.UserID()); err != nil {
		return err
	}
	store.ClearMessages()
	h.logger.Info("chat history reset", zap.String("user_id", store.UserID()))
	return nil
}
