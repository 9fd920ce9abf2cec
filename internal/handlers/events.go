package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/valyala/fasthttp"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/logger"
	"github.com/sophistic/Quack/internal/services"
)

// EventsHandler streams bridge events to shell windows over SSE or WebSocket
type EventsHandler struct {
	bus     *bridge.Bus
	overlay *services.OverlayService
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(bus *bridge.Bus, overlay *services.OverlayService) *EventsHandler {
	return &EventsHandler{bus: bus, overlay: overlay}
}

// HandleSSE streams bridge events as Server-Sent Events
// @Summary Server-Sent Events stream of bridge events
// @Description Streams host commands, overlay transitions, chat lifecycle events and heartbeats. Each message is a JSON envelope with event, timestamp and id.
// @Tags events
// @Produce text/event-stream
// @Router /v1/events [get]
func (h *EventsHandler) HandleSSE(c *fiber.Ctx) error {
	if ah := c.Get("Accept"); ah != "" && !strings.Contains(ah, "text/event-stream") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "This endpoint only accepts Server-Sent Events (text/event-stream)",
		})
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	id, ch := h.bus.Subscribe()
	window := c.Query("window", "unknown")
	logger.Infof("SSE client connected: %s (%s window)", id, window)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer h.bus.Unsubscribe(id)

		send := func(envelope bridge.Envelope) bool {
			if envelope.Event.Type == "" {
				return true
			}
			b, _ := json.Marshal(envelope)
			if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
				return false
			}
			return w.Flush() == nil
		}

		// Initial state so late subscribers render correctly
		if !send(h.bus.Heartbeat()) {
			return
		}
		if !send(h.snapshotEnvelope()) {
			return
		}

		tick := time.NewTicker(30 * time.Second)
		defer tick.Stop()

		for {
			select {
			case envelope, ok := <-ch:
				if !ok || !send(envelope) {
					return
				}
			case <-tick.C:
				if !send(h.bus.Heartbeat()) {
					return
				}
			}
		}
	}))

	return nil
}

// HandleWebSocket upgrades the connection and forwards bridge events
// @Summary WebSocket stream of bridge events
// @Tags events
// @Router /v1/events/ws [get]
func (h *EventsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		id, ch := h.bus.Subscribe()
		defer h.bus.Unsubscribe(id)
		logger.Infof("WebSocket client connected: %s", id)

		if err := conn.WriteJSON(h.snapshotEnvelope()); err != nil {
			return
		}

		tick := time.NewTicker(30 * time.Second)
		defer tick.Stop()

		for {
			select {
			case envelope, ok := <-ch:
				if !ok {
					return
				}
				if err := conn.WriteJSON(envelope); err != nil {
					return
				}
			case <-tick.C:
				if err := conn.WriteJSON(h.bus.Heartbeat()); err != nil {
					return
				}
			}
		}
	})(c)
}

func (h *EventsHandler) snapshotEnvelope() bridge.Envelope {
	return bridge.Envelope{
		Event: bridge.Event{
			Type:    bridge.OverlayStateEvent,
			Payload: h.overlay.Status(),
		},
		Timestamp: time.Now().UnixMilli(),
	}
}
