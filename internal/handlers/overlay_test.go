package handlers

import (
	"encoding/json"
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

func newOverlayApp() (*fiber.App, *bridge.Bus) {
	bus := bridge.NewBus()
	overlay := services.NewOverlayService(bridge.NewBusCommander(bus), bus)
	handler := NewOverlayHandler(overlay)

	app := fiber.New()
	app.Post("/v1/overlay/init", handler.Init)
	app.Get("/v1/overlay", handler.Status)
	app.Post("/v1/overlay/exit-follow", handler.ExitFollow)
	app.Post("/v1/overlay/pin", handler.TogglePin)
	app.Post("/v1/overlay/refollow", handler.Refollow)
	app.Post("/v1/overlay/active-window", handler.ActiveWindow)
	return app, bus
}

func postState(t *testing.T, app *fiber.App, path string) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("POST", path, nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var payload struct {
		State string `json:"state"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload.State
}

func TestOverlayHandler_InitialStatus(t *testing.T) {
	app, _ := newOverlayApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/overlay", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status models.OverlayStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, models.OverlayFollowing, status.State)
}

func TestOverlayHandler_FullPinCycle(t *testing.T) {
	app, _ := newOverlayApp()

	assert.Equal(t, string(models.OverlayExpanded), postState(t, app, "/v1/overlay/exit-follow"))
	assert.Equal(t, string(models.OverlayPinned), postState(t, app, "/v1/overlay/pin"))
	assert.Equal(t, string(models.OverlayFollowing), postState(t, app, "/v1/overlay/pin"))
}

func TestOverlayHandler_Refollow(t *testing.T) {
	app, _ := newOverlayApp()

	postState(t, app, "/v1/overlay/exit-follow")
	assert.Equal(t, string(models.OverlayFollowing), postState(t, app, "/v1/overlay/refollow"))
}

func TestOverlayHandler_ActiveWindow(t *testing.T) {
	app, _ := newOverlayApp()

	req := httptest.NewRequest("POST", "/v1/overlay/active-window", strings.NewReader(`{"name":"terminal"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var status models.OverlayStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "terminal", status.ActiveWindow)
	assert.Equal(t, models.OverlayFollowing, status.State)
}

func TestOverlayHandler_ActiveWindow_BadBody(t *testing.T) {
	app, _ := newOverlayApp()

	req := httptest.NewRequest("POST", "/v1/overlay/active-window", strings.NewReader("nope"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestOnboardingHandler_Finish(t *testing.T) {
	bus := bridge.NewBus()
	onboarding := services.NewOnboardingService(bridge.NewBusCommander(bus), bus)
	handler := NewOnboardingHandler(onboarding)

	app := fiber.New()
	app.Post("/v1/onboarding/finish", handler.Finish)

	// Shell subscriber present so the close command can land
	_, ch := bus.Subscribe()

	resp, err := app.Test(httptest.NewRequest("POST", "/v1/onboarding/finish", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var payload struct {
		Finished bool `json:"finished"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Finished)

	envelope := <-ch
	assert.Equal(t, bridge.HostCommandEvent, envelope.Event.Type)
}
