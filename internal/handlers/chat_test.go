package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/models"
	"github.com/sophistic/Quack/internal/services"
)

type stubMagicAPI struct {
	completeFn func(req *models.GenerateRequest) (*models.GenerateResponse, error)
	historyFn  func(convoID int64) ([]models.HistoryRecord, error)
}

func (s *stubMagicAPI) CreateCompletion(_ context.Context, req *models.GenerateRequest) (*models.GenerateResponse, error) {
	if s.completeFn != nil {
		return s.completeFn(req)
	}
	return &models.GenerateResponse{Response: "hello there", ConvoID: 1, Title: "Hello"}, nil
}

func (s *stubMagicAPI) FetchHistory(_ context.Context, convoID int64) ([]models.HistoryRecord, error) {
	if s.historyFn != nil {
		return s.historyFn(convoID)
	}
	return nil, nil
}

func newChatApp(api services.CompletionAPI) (*fiber.App, *services.ChatService) {
	chat := services.NewChatService(api, bridge.NewBus())
	handler := NewChatHandler(chat)

	app := fiber.New()
	app.Post("/v1/chat/submit", handler.Submit)
	app.Post("/v1/chat/new", handler.New)
	app.Get("/v1/chat/active", handler.Active)
	app.Get("/v1/chat/conversations", handler.Conversations)
	app.Post("/v1/chat/conversations/:id/select", handler.Select)
	app.Get("/v1/chat/models", handler.Models)
	app.Post("/v1/chat/models/select", handler.SelectModel)
	return app, chat
}

func TestChatHandler_Submit_InvalidJSON(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	req := httptest.NewRequest("POST", "/v1/chat/submit", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestChatHandler_Submit_EmptyMessage(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	body, _ := json.Marshal(models.SubmitRequest{Message: ""})
	req := httptest.NewRequest("POST", "/v1/chat/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Contains(t, payload["error"], "Message is required")
}

func TestChatHandler_Submit_ReturnsReply(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	body, _ := json.Marshal(models.SubmitRequest{Message: "hi"})
	req := httptest.NewRequest("POST", "/v1/chat/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result models.SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.Failed)
	assert.Equal(t, int64(1), result.ConvoID)
	assert.Equal(t, "hello there", result.Reply.Text)
	assert.Len(t, result.Messages, 2)
}

func TestChatHandler_Submit_FailureStill200(t *testing.T) {
	api := &stubMagicAPI{
		completeFn: func(req *models.GenerateRequest) (*models.GenerateResponse, error) {
			return nil, errors.New("service down")
		},
	}
	app, _ := newChatApp(api)

	body, _ := json.Marshal(models.SubmitRequest{Message: "hi"})
	req := httptest.NewRequest("POST", "/v1/chat/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result models.SubmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.True(t, result.Failed)
	assert.Equal(t, models.FallbackReply, result.Reply.Text)
}

func TestChatHandler_Select_InvalidID(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	req := httptest.NewRequest("POST", "/v1/chat/conversations/abc/select", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestChatHandler_Select_FetchFailure(t *testing.T) {
	api := &stubMagicAPI{
		historyFn: func(convoID int64) ([]models.HistoryRecord, error) {
			return nil, errors.New("offline")
		},
	}
	app, chat := newChatApp(api)

	req := httptest.NewRequest("POST", "/v1/chat/conversations/7/select", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 502, resp.StatusCode)
	assert.Equal(t, models.NewConversationID, chat.Current())
}

func TestChatHandler_Select_LoadsHistory(t *testing.T) {
	api := &stubMagicAPI{
		historyFn: func(convoID int64) ([]models.HistoryRecord, error) {
			return []models.HistoryRecord{
				{Sender: "user", Content: "q"},
				{Sender: "bot", Content: "a"},
			}, nil
		},
	}
	app, _ := newChatApp(api)

	req := httptest.NewRequest("POST", "/v1/chat/conversations/7/select", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var convo models.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&convo))
	assert.Equal(t, int64(7), convo.ID)
	require.Len(t, convo.Messages, 2)
	assert.Equal(t, models.RoleAssistant, convo.Messages[1].Sender)
}

func TestChatHandler_New(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	req := httptest.NewRequest("POST", "/v1/chat/new", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var convo models.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&convo))
	assert.Equal(t, models.NewConversationID, convo.ID)
	assert.Empty(t, convo.Messages)
}

func TestChatHandler_Models(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	req := httptest.NewRequest("GET", "/v1/chat/models", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		Models   []models.ModelOption `json:"models"`
		Selected models.ModelOption   `json:"selected"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Len(t, payload.Models, len(models.ModelCatalog))
	assert.Equal(t, models.DefaultModel.Model, payload.Selected.Model)
}

func TestChatHandler_SelectModel_Unknown(t *testing.T) {
	app, _ := newChatApp(&stubMagicAPI{})

	body := []byte(`{"model":"made-up"}`)
	req := httptest.NewRequest("POST", "/v1/chat/models/select", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
