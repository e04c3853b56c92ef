package state

import (
	"sync"
	"sync/atomic"

	"composer2/domain/core/entities"
)

// Store holds one user's conversational composition state: the live
// draft, the in-memory transcript, and the thinking indicator. It is
// the single source of truth the composer, chat, and persistence code
// all go through; every accessor takes the lock so readers always see
// a consistent snapshot.
type Store struct {
	mu       sync.RWMutex
	userID   string
	draft    entities.Draft
	messages []entities.Message
	thinking bool
	turnSeq  atomic.Uint64
}

// NewStore creates a store seeded with the default empty draft
func NewStore(userID string) *Store {
	return &Store{
		userID:   userID,
		draft:    entities.NewDraft(userID),
		messages: []entities.Message{},
	}
}

// UserID returns the owning user
func (s *Store) UserID() string {
	return s.userID
}

// LiveDraft returns a snapshot of the current draft
func (s *Store) LiveDraft() entities.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// SetLiveDraft merges a partial update into the live draft. Fields the
// patch does not carry keep their current values.
func (s *Store) SetLiveDraft(patch entities.DraftPatch) entities.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	patch.Apply(&s.draft)
	return s.draft.Clone()
}

// ReplaceLiveDraft overwrites the whole draft with a server-canonical
// copy, used after a persistence round-trip confirms new state
func (s *Store) ReplaceLiveDraft(d entities.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = d.Clone()
}

// ResetLiveDraft restores the default empty draft after a successful save
func (s *Store) ResetLiveDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = entities.NewDraft(s.userID)
}

// Messages returns a snapshot of the transcript
func (s *Store) Messages() []entities.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// AppendMessage adds one message to the end of the transcript
func (s *Store) AppendMessage(m entities.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
}

// ReplaceMessages swaps in a transcript loaded from persistence
func (s *Store) ReplaceMessages(msgs []entities.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]entities.Message, len(msgs))
	copy(s.messages, msgs)
}

// ClearMessages empties the transcript
func (s *Store) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []entities.Message{}
}

// Thinking reports whether the thinking indicator is currently shown
func (s *Store) Thinking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thinking
}

// SetThinking flips the thinking indicator
func (s *Store) SetThinking(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thinking = v
}

// NextTurn hands out a monotonically increasing turn number, used to
// tag events and logs for one assistant exchange
func (s *Store) NextTurn() uint64 {
	return s.turnSeq.Add(1)
}
