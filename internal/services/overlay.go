package services

import (
	"sync"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/logger"
	"github.com/sophistic/Quack/internal/models"
)

// OverlayService owns the magic-dot follow/pin state machine. The shell
// reports inbound signals (follow mode exited, foreground window changed) and
// receives window-control commands back through the bridge.
type OverlayService struct {
	commander bridge.Commander
	bus       *bridge.Bus

	mu           sync.Mutex
	state        models.OverlayState
	activeWindow string

	initOnce sync.Once
}

// NewOverlayService creates an overlay in the initial following state
func NewOverlayService(commander bridge.Commander, bus *bridge.Bus) *OverlayService {
	return &OverlayService{
		commander: commander,
		bus:       bus,
		state:     models.OverlayFollowing,
	}
}

// Init issues the initial follow and window-watch commands. Guarded so
// repeated mounts of the overlay window never re-issue them.
func (s *OverlayService) Init() {
	s.initOnce.Do(func() {
		s.dispatch(bridge.FollowMagicDot, nil)
		s.dispatch(bridge.StartWindowWatch, nil)
	})
}

// Status returns the current overlay snapshot
func (s *OverlayService) Status() models.OverlayStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.OverlayStatus{State: s.state, ActiveWindow: s.activeWindow}
}

// ExitFollow handles the shell's exit-follow-mode signal: the collapsed dot
// expands into the unpinned panel. A no-op in either expanded state.
func (s *OverlayService) ExitFollow() models.OverlayState {
	s.mu.Lock()
	if s.state == models.OverlayFollowing {
		s.state = models.OverlayExpanded
	}
	state := s.state
	s.mu.Unlock()

	s.bus.Publish(bridge.Event{Type: bridge.ExitFollowModeEvent})
	s.publishState(state)
	return state
}

// TogglePin pins the expanded panel, or unpins a pinned panel and returns it
// to follow mode. Pinning from the following state is rejected silently; the
// dot has no panel to pin.
func (s *OverlayService) TogglePin() models.OverlayState {
	s.mu.Lock()
	switch s.state {
	case models.OverlayExpanded:
		s.state = models.OverlayPinned
		s.mu.Unlock()
		s.dispatch(bridge.PinMagicDot, nil)
		s.publishState(models.OverlayPinned)
		return models.OverlayPinned
	case models.OverlayPinned:
		s.state = models.OverlayFollowing
		s.mu.Unlock()
		// Unpinning re-enters follow mode with a single follow command
		s.dispatch(bridge.FollowMagicDot, nil)
		s.publishState(models.OverlayFollowing)
		return models.OverlayFollowing
	default:
		state := s.state
		s.mu.Unlock()
		return state
	}
}

// Refollow collapses either expanded state back to the following dot,
// clearing the pinned flag and issuing exactly one follow command.
func (s *OverlayService) Refollow() models.OverlayState {
	s.mu.Lock()
	if s.state == models.OverlayFollowing {
		s.mu.Unlock()
		return models.OverlayFollowing
	}
	s.state = models.OverlayFollowing
	s.mu.Unlock()

	s.dispatch(bridge.FollowMagicDot, nil)
	s.publishState(models.OverlayFollowing)
	return models.OverlayFollowing
}

// SetActiveWindow updates the displayed foreground application name. No
// state transition happens regardless of the current state.
func (s *OverlayService) SetActiveWindow(name string) {
	s.mu.Lock()
	changed := s.activeWindow != name
	s.activeWindow = name
	s.mu.Unlock()

	if changed {
		s.bus.Publish(bridge.Event{
			Type:    bridge.ActiveWindowChangedEvent,
			Payload: bridge.ActiveWindowPayload{Name: name},
		})
	}
}

func (s *OverlayService) dispatch(cmd bridge.Command, args any) {
	if err := s.commander.Dispatch(cmd, args); err != nil {
		// Command failures are diagnostic only, never surfaced
		logger.Warnf("Overlay command %s failed: %v", cmd, err)
	}
}

func (s *OverlayService) publishState(state models.OverlayState) {
	s.bus.Publish(bridge.Event{
		Type:    bridge.OverlayStateEvent,
		Payload: models.OverlayStatus{State: state},
	})
}
