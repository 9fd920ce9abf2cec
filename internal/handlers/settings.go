package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sophistic/Quack/internal/models"
	"github.com/sophistic/Quack/internal/services"
)

// SettingsHandler exposes the persisted desktop preferences
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get returns the current settings
// @Summary Get app settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.AppSettings
// @Router /v1/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.settings.Get())
}

// Update replaces the settings
// @Summary Update app settings
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} models.AppSettings
// @Router /v1/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var settings models.AppSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.settings.Update(settings); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(h.settings.Get())
}
