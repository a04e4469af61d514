package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowBoard   func()
	OnPreferences func()
	OnCancelAll   func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	cancelItem  *fyne.MenuItem
	callbacks   Callbacks
	statusLabel string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:         app,
		callbacks:   callbacks,
		statusLabel: "idle",
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true

	manager.cancelItem = fyne.NewMenuItem("Cancel all columns", func() {
		if manager.callbacks.OnCancelAll != nil {
			manager.callbacks.OnCancelAll()
		}
	})
	manager.cancelItem.Disabled = true

	manager.refreshStatus()
	return manager
}

// SetStatus updates the tray to reflect how many columns are brewing and
// how many stages are counting down.
func (manager *Manager) SetStatus(brewing, running int) {
	switch {
	case brewing == 0:
		manager.statusLabel = "idle"
	case running == 1:
		manager.statusLabel = fmt.Sprintf("%d brewing, 1 stage running", brewing)
	default:
		manager.statusLabel = fmt.Sprintf("%d brewing, %d stages running", brewing, running)
	}
	manager.cancelItem.Disabled = brewing == 0
	manager.refreshStatus()
}

// Status returns the current status line.
func (manager *Manager) Status() string {
	return manager.statusItem.Label
}

func (manager *Manager) refreshStatus() {
	manager.statusItem.Label = fmt.Sprintf("Status: %s", manager.statusLabel)
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("Brewboard",
		manager.statusItem,
		fyne.NewMenuItem("Show board", func() {
			if manager.callbacks.OnShowBoard != nil {
				manager.callbacks.OnShowBoard()
			}
		}),
		manager.cancelItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
