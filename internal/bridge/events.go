package bridge

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sophistic/Quack/internal/logger"
)

// EventType identifies a cross-window event fanned out to shell subscribers
type EventType string

// Event type constants that match the shell's listener registrations
const (
	ExitFollowModeEvent      EventType = "exit_follow_mode"
	ActiveWindowChangedEvent EventType = "active_window_changed"
	OnboardingDoneEvent      EventType = "onboarding_done"
	OverlayStateEvent        EventType = "overlay:state_changed"
	ConvoEstablishedEvent    EventType = "chat:conversation_established"
	ConvoTitleUpdatedEvent   EventType = "chat:title_updated"
	HostCommandEvent         EventType = "host:command"
	HeartbeatEvent           EventType = "heartbeat"
)

// Event is a typed payload broadcast to every subscriber
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload"`
}

// Envelope wraps an event with delivery metadata for the wire
type Envelope struct {
	Event     Event  `json:"event"`
	Timestamp int64  `json:"timestamp"`
	ID        string `json:"id"`
}

// ActiveWindowPayload carries the foreground application name
type ActiveWindowPayload struct {
	Name string `json:"name"`
}

// ConvoEstablishedPayload reports sentinel-to-server id adoption
type ConvoEstablishedPayload struct {
	ConvoID int64  `json:"convo_id"`
	Title   string `json:"title,omitempty"`
}

// ConvoTitlePayload carries a late-arriving conversation title
type ConvoTitlePayload struct {
	ConvoID int64  `json:"convo_id"`
	Title   string `json:"title"`
}

// HeartbeatPayload keeps idle streams alive
type HeartbeatPayload struct {
	Timestamp int64 `json:"timestamp"`
	Uptime    int64 `json:"uptime"`
}

// subscriber grace period before a full channel gets the client dropped
const graceperiod = 2 * time.Second

// Bus fans events out to connected shell windows. Slow subscribers are
// dropped rather than blocking publishers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Envelope
	connectedAt map[string]time.Time
	startTime   time.Time
	closed      bool
}

// NewBus creates an event bus with no subscribers
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Envelope),
		connectedAt: make(map[string]time.Time),
		startTime:   time.Now(),
	}
}

// Subscribe registers a new subscriber and returns its id and channel. The
// channel is closed by Unsubscribe or Close.
func (b *Bus) Subscribe() (string, <-chan Envelope) {
	id := uuid.New().String()
	ch := make(chan Envelope, 100)

	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers[id] = ch
		b.connectedAt[id] = time.Now()
	}
	b.mu.Unlock()

	logger.Debugf("Event subscriber added: %s", id)
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	delete(b.connectedAt, id)
	b.mu.Unlock()
	logger.Debugf("Event subscriber removed: %s", id)
}

// SubscriberCount returns the number of connected subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish broadcasts an event to all subscribers
func (b *Bus) Publish(event Event) {
	if event.Type == "" {
		logger.Warn("Dropping event with empty type")
		return
	}

	envelope := Envelope{
		Event:     event,
		Timestamp: time.Now().UnixMilli(),
		ID:        uuid.New().String(),
	}

	b.mu.RLock()
	var stale []string
	for id, ch := range b.subscribers {
		select {
		case ch <- envelope:
		default:
			// Freshly connected clients get a grace period before removal
			if at, ok := b.connectedAt[id]; ok && time.Since(at) < graceperiod {
				logger.Debugf("Subscriber %s in grace period, keeping", id)
			} else {
				stale = append(stale, id)
			}
		}
	}
	b.mu.RUnlock()

	for _, id := range stale {
		logger.Warnf("Dropping slow event subscriber %s", id)
		b.Unsubscribe(id)
	}
}

// Heartbeat returns a heartbeat envelope for keeping streams alive
func (b *Bus) Heartbeat() Envelope {
	return Envelope{
		Event: Event{
			Type: HeartbeatEvent,
			Payload: HeartbeatPayload{
				Timestamp: time.Now().UnixMilli(),
				Uptime:    time.Since(b.startTime).Milliseconds(),
			},
		},
		Timestamp: time.Now().UnixMilli(),
		ID:        uuid.New().String(),
	}
}

// Close shuts the bus down and disconnects all subscribers
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	b.connectedAt = make(map[string]time.Time)
}
