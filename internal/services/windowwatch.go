package services

import (
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sophistic/Quack/internal/logger"
)

// ForegroundProvider reports the name of the foreground application
type ForegroundProvider interface {
	ActiveProcessName() (string, error)
}

// WindowWatcher polls the foreground application and forwards changes to the
// overlay. Our own process name and empty reads are skipped, and a name is
// only forwarded when it differs from the last one seen.
type WindowWatcher struct {
	provider ForegroundProvider
	overlay  *OverlayService
	interval time.Duration
	selfName string

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
}

// NewWindowWatcher creates a watcher that feeds the given overlay
func NewWindowWatcher(provider ForegroundProvider, overlay *OverlayService, interval time.Duration, selfName string) *WindowWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &WindowWatcher{
		provider: provider,
		overlay:  overlay,
		interval: interval,
		selfName: selfName,
	}
}

// Start begins polling. Calling Start on a running watcher is a no-op.
func (w *WindowWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	w.stopChan = make(chan struct{})
	go w.loop(w.stopChan)
}

// Stop halts polling
func (w *WindowWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.stopChan)
}

func (w *WindowWatcher) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last string
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			name, err := w.provider.ActiveProcessName()
			if err != nil {
				logger.Debugf("Foreground window probe failed: %v", err)
				continue
			}
			if name == "" || strings.EqualFold(name, w.selfName) || name == last {
				continue
			}
			last = name
			logger.Debugf("Foreground window changed: %s", name)
			w.overlay.SetActiveWindow(name)
		}
	}
}

// SystemForegroundProvider shells out to the platform's scripting tools to
// read the foreground application name.
type SystemForegroundProvider struct{}

// ActiveProcessName returns the foreground application name, or empty when
// the platform offers no probe.
func (SystemForegroundProvider) ActiveProcessName() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("osascript", "-e",
			`tell application "System Events" to get name of first process whose frontmost is true`).Output()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	case "linux":
		out, err := exec.Command("xdotool", "getactivewindow", "getwindowclassname").Output()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(out)), nil
	default:
		return "", nil
	}
}
