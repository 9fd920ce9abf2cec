package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sophistic/Quack/internal/services"
)

// OnboardingHandler exposes the onboarding completion action
type OnboardingHandler struct {
	onboarding *services.OnboardingService
}

// NewOnboardingHandler creates a new onboarding handler
func NewOnboardingHandler(onboarding *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

// Finish asks the shell to close the onboarding window. Always returns 200;
// a failed dispatch is logged and the button can be pressed again.
// @Summary Finish onboarding
// @Tags onboarding
// @Produce json
// @Router /v1/onboarding/finish [post]
func (h *OnboardingHandler) Finish(c *fiber.Ctx) error {
	h.onboarding.Finish()
	return c.JSON(fiber.Map{"finished": h.onboarding.Finished()})
}
