package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/sophistic/Quack/internal/models"
	"github.com/sophistic/Quack/internal/services"
)

// ChatHandler exposes the chat session over the local API
type ChatHandler struct {
	chat *services.ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Submit sends a user message to the active conversation
// @Summary Submit a chat message
// @Description Appends the message, requests a completion and returns the assistant reply. A failed completion returns 200 with failed=true and the fallback reply.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body models.SubmitRequest true "Message to submit"
// @Success 200 {object} models.SubmitResponse
// @Router /v1/chat/submit [post]
func (h *ChatHandler) Submit(c *fiber.Ctx) error {
	var req models.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	resp, err := h.chat.Submit(c.Context(), req.Message, req.Notes)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(resp)
}

// Select switches the active conversation, fetching history on a cache miss
// @Summary Select a conversation
// @Tags chat
// @Produce json
// @Param id path int true "Conversation id"
// @Success 200 {object} models.Conversation
// @Router /v1/chat/conversations/{id}/select [post]
func (h *ChatHandler) Select(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid conversation id",
		})
	}

	if err := h.chat.Select(c.Context(), id); err != nil {
		// Selection did not happen; the previous conversation stays active
		return c.Status(502).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(models.Conversation{
		ID:       h.chat.Current(),
		Messages: h.chat.Messages(),
	})
}

// New starts a fresh unsaved conversation
// @Summary Start a new conversation
// @Tags chat
// @Produce json
// @Success 200 {object} models.Conversation
// @Router /v1/chat/new [post]
func (h *ChatHandler) New(c *fiber.Ctx) error {
	h.chat.StartNew()
	return c.JSON(models.Conversation{
		ID:       h.chat.Current(),
		Messages: h.chat.Messages(),
	})
}

// Conversations lists every cached conversation
// @Summary List cached conversations
// @Tags chat
// @Produce json
// @Success 200 {array} models.Conversation
// @Router /v1/chat/conversations [get]
func (h *ChatHandler) Conversations(c *fiber.Ctx) error {
	return c.JSON(h.chat.Conversations())
}

// Active returns the active conversation and session state
// @Summary Get the active conversation
// @Tags chat
// @Produce json
// @Router /v1/chat/active [get]
func (h *ChatHandler) Active(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"convo_id": h.chat.Current(),
		"state":    h.chat.State(),
		"messages": h.chat.Messages(),
	})
}

// Models returns the static model catalog and the current selection
// @Summary List selectable models
// @Tags chat
// @Produce json
// @Router /v1/chat/models [get]
func (h *ChatHandler) Models(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"models":   models.ModelCatalog,
		"selected": h.chat.Model(),
	})
}

// SelectModel picks a model from the catalog
// @Summary Select a model
// @Tags chat
// @Accept json
// @Produce json
// @Router /v1/chat/models/select [post]
func (h *ChatHandler) SelectModel(c *fiber.Ctx) error {
	var req struct {
		Model string `json:"model"`
	}
	if err := c.BodyParser(&req); err != nil || req.Model == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "Model is required",
		})
	}
	if err := h.chat.SelectModel(req.Model); err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(h.chat.Model())
}
