package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/logger"
	"github.com/sophistic/Quack/internal/models"
	"github.com/sophistic/Quack/internal/store"
)

// ErrEmptyMessage is returned when a submit carries no text
var ErrEmptyMessage = errors.New("message cannot be empty")

// ErrUnknownModel is returned when a model selection is not in the catalog
var ErrUnknownModel = errors.New("unknown model")

// CompletionAPI is the remote surface the chat session depends on
type CompletionAPI interface {
	CreateCompletion(ctx context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error)
	FetchHistory(ctx context.Context, convoID int64) ([]models.HistoryRecord, error)
}

// ChatService manages the active conversation against the completion
// service, reconciling optimistic local appends with server-assigned
// identity. Submits are serialized: a second submit waits for the first,
// which keeps message-append order equal to submission order.
type ChatService struct {
	convos *store.ConversationStore
	api    CompletionAPI
	bus    *bridge.Bus

	mu      sync.Mutex // serializes submit/select/startNew
	state   models.SessionState
	model   models.ModelOption
	account string
}

// NewChatService creates a chat service starting on a fresh conversation
func NewChatService(api CompletionAPI, bus *bridge.Bus) *ChatService {
	return &ChatService{
		convos: store.NewConversationStore(),
		api:    api,
		bus:    bus,
		state:  models.SessionNew,
		model:  models.DefaultModel,
	}
}

// SetAccount records the signed-in account forwarded with completion requests
func (s *ChatService) SetAccount(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.account = email
}

// State returns the current session lifecycle state
func (s *ChatService) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Model returns the currently selected model
func (s *ChatService) Model() models.ModelOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SelectModel picks a model from the static catalog by model id
func (s *ChatService) SelectModel(modelID string) error {
	for _, opt := range models.ModelCatalog {
		if opt.Model == modelID {
			s.mu.Lock()
			s.model = opt
			s.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
}

// Current returns the active conversation id
func (s *ChatService) Current() int64 {
	return s.convos.Current()
}

// Messages returns a snapshot of the active conversation's messages
func (s *ChatService) Messages() []models.Message {
	return s.convos.Messages(s.convos.Current())
}

// Conversations returns a snapshot of every cached conversation
func (s *ChatService) Conversations() []models.Conversation {
	return s.convos.Conversations()
}

// Submit appends the user message optimistically, requests a completion with
// the full prior history, and appends the assistant reply. A failed request
// appends the fixed fallback message instead; the user message is never
// rolled back. When the conversation was unsaved, the server-assigned id and
// title are adopted and the cache is re-keyed.
func (s *ChatService) Submit(ctx context.Context, text, notes string) (*models.SubmitResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	convoID := s.convos.Current()
	isNew := convoID == models.NewConversationID
	history := s.convos.Messages(convoID)

	s.convos.Append(convoID, models.Message{Sender: models.RoleUser, Text: text})
	if isNew {
		s.state = models.SessionPendingReply
	}

	req := &models.GenerateRequest{
		Email:    s.account,
		Message:  text,
		NewConvo: isNew,
		ConvoID:  convoID,
		Provider: s.model.Provider,
		Model:    s.model.Model,
		History:  history,
		Notes:    notes,
	}

	resp, err := s.api.CreateCompletion(ctx, req)
	if err != nil {
		logger.Errorf("Completion request failed for conversation %d: %v", convoID, err)
		fallback := models.Message{Sender: models.RoleAssistant, Text: models.FallbackReply}
		s.convos.Append(convoID, fallback)
		s.state = models.SessionError
		return &models.SubmitResponse{
			ConvoID:  convoID,
			Title:    s.convos.Title(convoID),
			Reply:    fallback,
			Messages: s.convos.Messages(convoID),
			Failed:   true,
		}, nil
	}

	reply := models.Message{Sender: models.RoleAssistant, Text: resp.Response}
	s.convos.Append(convoID, reply)

	if isNew && resp.ConvoID != models.NewConversationID {
		s.convos.Rekey(convoID, resp.ConvoID)
		convoID = resp.ConvoID
		s.convos.SetTitle(convoID, resp.Title)
		s.publish(bridge.Event{
			Type:    bridge.ConvoEstablishedEvent,
			Payload: bridge.ConvoEstablishedPayload{ConvoID: convoID, Title: resp.Title},
		})
	} else if resp.Title != "" && s.convos.Title(convoID) == "" {
		s.convos.SetTitle(convoID, resp.Title)
		s.publish(bridge.Event{
			Type:    bridge.ConvoTitleUpdatedEvent,
			Payload: bridge.ConvoTitlePayload{ConvoID: convoID, Title: resp.Title},
		})
	}

	s.state = models.SessionEstablished
	return &models.SubmitResponse{
		ConvoID:  convoID,
		Title:    s.convos.Title(convoID),
		Reply:    reply,
		Messages: s.convos.Messages(convoID),
	}, nil
}

// Select switches to a conversation. Cached conversations switch immediately
// with no network call; otherwise the history is fetched, normalized and
// cached first. A failed fetch leaves the previous selection active.
func (s *ChatService) Select(ctx context.Context, convoID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.convos.Has(convoID) {
		s.convos.SetCurrent(convoID)
		if convoID == models.NewConversationID {
			s.state = models.SessionNew
		} else {
			s.state = models.SessionEstablished
		}
		return nil
	}

	prev := s.state
	s.state = models.SessionLoadingHistory

	records, err := s.api.FetchHistory(ctx, convoID)
	if err != nil {
		logger.Errorf("History fetch failed for conversation %d: %v", convoID, err)
		s.state = prev
		return fmt.Errorf("failed to load conversation %d: %w", convoID, err)
	}

	msgs := make([]models.Message, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, models.Message{
			Sender: models.NormalizeRole(rec.Sender),
			Text:   rec.Content,
		})
	}

	s.convos.Replace(convoID, msgs)
	s.convos.SetCurrent(convoID)
	s.state = models.SessionEstablished
	return nil
}

// StartNew resets to a fresh unsaved conversation. Other cached
// conversations are retained.
func (s *ChatService) StartNew() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convos.ResetCurrent()
	s.state = models.SessionNew
}

func (s *ChatService) publish(event bridge.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}
