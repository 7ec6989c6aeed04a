// Package tray provides a system tray interface for the sparkler effect app.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle  func(enabled bool)
	onRecord  func(start bool)
	onViewer  func()
	onQuit    func()
	enabled   bool
	recording bool
	mu        sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuRecord *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray instance. The effect starts in the given enabled state.
func New(enabled bool) *Tray {
	return &Tray{
		enabled: enabled,
	}
}

// OnToggle sets the callback function to be called when the effect is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRecord sets the callback function to be called when recording is started
// or stopped. The start argument is true when a recording should begin.
func (t *Tray) OnRecord(fn func(start bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRecord = fn
}

// OnViewer sets the callback function to be called when the viewer menu item is clicked.
func (t *Tray) OnViewer(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onViewer = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Phuljhari")
	systray.SetTooltip("Phuljhari Sparkler Trails")

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle the sparkler effect")
	systray.AddSeparator()

	t.menuRecord = systray.AddMenuItem("Start Recording", "Record the effect to a video file")
	t.menuStatus = systray.AddMenuItem("Not recording", "Recording status")
	t.menuStatus.Disable()
	systray.AddSeparator()

	menuViewer := systray.AddMenuItem("Open Viewer...", "Open the live view in browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Phuljhari")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuRecord.ClickedCh:
				t.handleRecord()
			case <-menuViewer.ClickedCh:
				t.handleViewer()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Effect On"
	}
	return "○ Effect Off"
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleRecord handles the record menu item click.
func (t *Tray) handleRecord() {
	t.mu.Lock()
	t.recording = !t.recording
	start := t.recording
	if start {
		t.menuRecord.SetTitle("Stop Recording")
		t.menuStatus.SetTitle("Recording...")
	} else {
		t.menuRecord.SetTitle("Start Recording")
		t.menuStatus.SetTitle("Not recording")
	}
	callback := t.onRecord
	t.mu.Unlock()

	if callback != nil {
		callback(start)
	}
}

// handleViewer handles the viewer menu item click.
func (t *Tray) handleViewer() {
	t.mu.RLock()
	callback := t.onViewer
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetRecording updates the recording indicator, for state changes made
// through the HTTP API rather than the menu.
func (t *Tray) SetRecording(recording bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.recording = recording
	if t.menuRecord == nil {
		return
	}
	if recording {
		t.menuRecord.SetTitle("Stop Recording")
		t.menuStatus.SetTitle("Recording...")
	} else {
		t.menuRecord.SetTitle("Start Recording")
		t.menuStatus.SetTitle("Not recording")
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
