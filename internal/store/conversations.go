package store

import (
	"sort"
	"sync"

	"github.com/sophistic/Quack/internal/models"
)

// ConversationStore is the single-owner index of cached conversations. All
// mutation goes through its methods; callers never hold references into the
// underlying slices.
type ConversationStore struct {
	mu       sync.RWMutex
	messages map[int64][]models.Message
	titles   map[int64]string
	current  int64
}

// NewConversationStore creates a store with an empty unsaved conversation
// selected.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		messages: map[int64][]models.Message{models.NewConversationID: nil},
		titles:   make(map[int64]string),
		current:  models.NewConversationID,
	}
}

// Current returns the currently selected conversation id
func (s *ConversationStore) Current() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCurrent selects a conversation, creating its cache entry if absent so
// the selected id is always a key.
func (s *ConversationStore) SetCurrent(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		s.messages[id] = nil
	}
	s.current = id
}

// Has reports whether a conversation's messages are cached
func (s *ConversationStore) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.messages[id]
	return ok
}

// Messages returns a copy of a conversation's message sequence
func (s *ConversationStore) Messages(id int64) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages[id]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Len returns the number of messages cached for a conversation
func (s *ConversationStore) Len(id int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages[id])
}

// Append adds a message to the end of a conversation
func (s *ConversationStore) Append(id int64, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[id] = append(s.messages[id], msg)
}

// Replace swaps a conversation's entire message sequence
func (s *ConversationStore) Replace(id int64, msgs []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]models.Message, len(msgs))
	copy(copied, msgs)
	s.messages[id] = copied
}

// Rekey moves everything cached under oldID to newID. Used when the server
// assigns a real id to a previously unsaved conversation; messages are moved,
// never duplicated. Selection follows if the old id was current.
func (s *ConversationStore) Rekey(oldID, newID int64) {
	if oldID == newID {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[newID] = s.messages[oldID]
	delete(s.messages, oldID)

	if title, ok := s.titles[oldID]; ok {
		s.titles[newID] = title
		delete(s.titles, oldID)
	}
	if s.current == oldID {
		s.current = newID
	}
}

// Title returns a conversation's title, if known
func (s *ConversationStore) Title(id int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.titles[id]
}

// SetTitle records a conversation's title
func (s *ConversationStore) SetTitle(id int64, title string) {
	if title == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.titles[id] = title
}

// ResetCurrent starts a fresh unsaved conversation without touching other
// cached conversations.
func (s *ConversationStore) ResetCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[models.NewConversationID] = nil
	delete(s.titles, models.NewConversationID)
	s.current = models.NewConversationID
}

// Conversations returns a snapshot of all cached conversations, established
// ones first in ascending id order, the unsaved one last.
func (s *ConversationStore) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.messages))
	for id := range s.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		// Sentinel sorts last
		if ids[i] == models.NewConversationID {
			return false
		}
		if ids[j] == models.NewConversationID {
			return true
		}
		return ids[i] < ids[j]
	})

	out := make([]models.Conversation, 0, len(ids))
	for _, id := range ids {
		msgs := make([]models.Message, len(s.messages[id]))
		copy(msgs, s.messages[id])
		out = append(out, models.Conversation{ID: id, Title: s.titles[id], Messages: msgs})
	}
	return out
}
