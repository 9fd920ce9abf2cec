package services

import (
	"sync"

	"github.com/sophistic/Quack/internal/bridge"
	"github.com/sophistic/Quack/internal/logger"
)

// OnboardingService finishes the onboarding flow by asking the shell to
// close the onboarding window. Finishing twice is harmless.
type OnboardingService struct {
	commander bridge.Commander
	bus       *bridge.Bus

	mu       sync.Mutex
	finished bool
}

// NewOnboardingService creates an onboarding service
func NewOnboardingService(commander bridge.Commander, bus *bridge.Bus) *OnboardingService {
	return &OnboardingService{commander: commander, bus: bus}
}

// Finished reports whether the close has been requested
func (s *OnboardingService) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Finish requests the shell to close the onboarding window. A dispatch
// failure is logged only; the user can press the button again.
func (s *OnboardingService) Finish() {
	if err := s.commander.Dispatch(bridge.CloseOnboardingWindow, nil); err != nil {
		logger.Warnf("Failed to close onboarding window: %v", err)
		return
	}

	s.mu.Lock()
	first := !s.finished
	s.finished = true
	s.mu.Unlock()

	if first {
		s.bus.Publish(bridge.Event{Type: bridge.OnboardingDoneEvent})
	}
}
