package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sophistic/Quack/internal/bridge"
)

func TestOnboarding_FinishClosesWindow(t *testing.T) {
	cmdr := &fakeCommander{}
	onboarding := NewOnboardingService(cmdr, bridge.NewBus())

	onboarding.Finish()

	assert.True(t, onboarding.Finished())
	assert.Equal(t, 1, cmdr.count(bridge.CloseOnboardingWindow))
}

func TestOnboarding_FinishIsIdempotent(t *testing.T) {
	cmdr := &fakeCommander{}
	bus := bridge.NewBus()
	onboarding := NewOnboardingService(cmdr, bus)
	_, ch := bus.Subscribe()

	onboarding.Finish()
	onboarding.Finish()

	assert.True(t, onboarding.Finished())
	// The command goes out each time, the done event only once
	assert.Equal(t, 2, cmdr.count(bridge.CloseOnboardingWindow))

	envelope := <-ch
	assert.Equal(t, bridge.OnboardingDoneEvent, envelope.Event.Type)
	select {
	case extra := <-ch:
		t.Fatalf("unexpected second event: %s", extra.Event.Type)
	default:
	}
}

func TestOnboarding_DispatchFailureLeavesUnfinished(t *testing.T) {
	cmdr := &fakeCommander{err: bridge.ErrNoShell}
	onboarding := NewOnboardingService(cmdr, bridge.NewBus())

	onboarding.Finish()

	assert.False(t, onboarding.Finished())
}
