package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sophistic/Quack/internal/services"
)

// OverlayHandler exposes the magic-dot state machine to the shell windows
type OverlayHandler struct {
	overlay *services.OverlayService
}

// NewOverlayHandler creates a new overlay handler
func NewOverlayHandler(overlay *services.OverlayService) *OverlayHandler {
	return &OverlayHandler{overlay: overlay}
}

// Init issues the one-time follow and window-watch commands
// @Summary Initialize the overlay
// @Tags overlay
// @Produce json
// @Router /v1/overlay/init [post]
func (h *OverlayHandler) Init(c *fiber.Ctx) error {
	h.overlay.Init()
	return c.JSON(h.overlay.Status())
}

// Status returns the overlay state and the foreground application name
// @Summary Get overlay status
// @Tags overlay
// @Produce json
// @Success 200 {object} models.OverlayStatus
// @Router /v1/overlay [get]
func (h *OverlayHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.overlay.Status())
}

// ExitFollow reports that the dot reached the cursor and follow mode ended
// @Summary Exit follow mode
// @Tags overlay
// @Produce json
// @Router /v1/overlay/exit-follow [post]
func (h *OverlayHandler) ExitFollow(c *fiber.Ctx) error {
	state := h.overlay.ExitFollow()
	return c.JSON(fiber.Map{"state": state})
}

// TogglePin pins the panel, or unpins and returns to follow mode
// @Summary Toggle the pin
// @Tags overlay
// @Produce json
// @Router /v1/overlay/pin [post]
func (h *OverlayHandler) TogglePin(c *fiber.Ctx) error {
	state := h.overlay.TogglePin()
	return c.JSON(fiber.Map{"state": state})
}

// Refollow collapses the panel back into the following dot
// @Summary Return to follow mode
// @Tags overlay
// @Produce json
// @Router /v1/overlay/refollow [post]
func (h *OverlayHandler) Refollow(c *fiber.Ctx) error {
	state := h.overlay.Refollow()
	return c.JSON(fiber.Map{"state": state})
}

// ActiveWindow lets a shell-side watcher report the foreground application
// @Summary Report the foreground application
// @Tags overlay
// @Accept json
// @Produce json
// @Router /v1/overlay/active-window [post]
func (h *OverlayHandler) ActiveWindow(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	h.overlay.SetActiveWindow(req.Name)
	return c.JSON(h.overlay.Status())
}
