package bridge

import (
	"errors"

	"github.com/sophistic/Quack/internal/logger"
)

// Command is a window-control instruction executed by the native shell
type Command string

const (
	FollowMagicDot        Command = "follow_magic_dot"
	PinMagicDot           Command = "pin_magic_dot"
	StartWindowWatch      Command = "start_window_watch"
	CloseOnboardingWindow Command = "close_onboarding_window"
)

// ErrNoShell is returned when a command is dispatched with no shell window
// connected to receive it.
var ErrNoShell = errors.New("no shell subscriber connected")

// CommandPayload is the wire form of a dispatched host command
type CommandPayload struct {
	Command Command `json:"command"`
	Args    any     `json:"args,omitempty"`
}

// Commander delivers host commands to the shell. Callers receive an explicit
// result instead of fire-and-forget, though most log and move on.
type Commander interface {
	Dispatch(cmd Command, args any) error
}

// BusCommander publishes commands as events on the bridge bus; the shell
// executes them and is the only consumer.
type BusCommander struct {
	bus *Bus
}

// NewBusCommander creates a commander backed by the given bus
func NewBusCommander(bus *Bus) *BusCommander {
	return &BusCommander{bus: bus}
}

// Dispatch publishes a host command. ErrNoShell is reported when nothing is
// listening; the command is not queued for later delivery.
func (c *BusCommander) Dispatch(cmd Command, args any) error {
	if c.bus.SubscriberCount() == 0 {
		logger.Warnf("Host command %s dispatched with no shell connected", cmd)
		return ErrNoShell
	}

	c.bus.Publish(Event{
		Type:    HostCommandEvent,
		Payload: CommandPayload{Command: cmd, Args: args},
	})
	logger.Debugf("Dispatched host command: %s", cmd)
	return nil
}
