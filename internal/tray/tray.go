package tray

import (
	"context"
	"fmt"

	"github.com/getlantern/systray"
	"github.com/petems/keychord/internal/app"
	"github.com/petems/keychord/internal/config"
	"github.com/petems/keychord/internal/logging"
	"github.com/rs/zerolog"
)

type UI struct {
	app     *app.App
	cfg     *config.Config
	version string
	commit  string
	log     zerolog.Logger

	// Menu items
	mPause    *systray.MenuItem
	mBindings *systray.MenuItem
}

// Status update methods for the app to call
func (u *UI) SetListening() {
	u.updateStatus("listening")
}

func (u *UI) SetPaused() {
	u.updateStatus("paused")
}

func (u *UI) SetError() {
	u.updateStatus("error")
}

func New(application *app.App, cfg *config.Config, version, commit string) *UI {
	log := logging.New()
	return &UI{
		app:     application,
		cfg:     cfg,
		version: version,
		commit:  commit,
		log:     log,
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

func (u *UI) Run(ctx context.Context) error {
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.updateStatus("listening")
	systray.SetTooltip("Global hotkey daemon")

	// Build menu
	u.mPause = systray.AddMenuItemCheckbox("Pause Capture", "Stop reacting to chords", false)
	systray.AddSeparator()

	u.mBindings = systray.AddMenuItem("Bindings", "Configured chords")
	u.buildBindingsMenu()

	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About keychordd")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	// Event loop
	go u.handleEvents(mAbout, mQuit)
}

func (u *UI) handleEvents(mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mPause.ClickedCh:
			u.togglePause()
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

// buildBindingsMenu lists each chord and its action as a disabled submenu
// entry. Editing happens in the config file, not here.
func (u *UI) buildBindingsMenu() {
	for _, b := range u.app.Bindings() {
		label := fmt.Sprintf("%s: %s", b.Chord, b.Action)
		item := u.mBindings.AddSubMenuItem(label, "")
		item.Disable()
	}
}

func (u *UI) togglePause() {
	if u.app.IsPaused() {
		if err := u.app.Resume(); err != nil {
			u.log.Error().Err(err).Msg("Failed to resume capture")
			return
		}
		u.mPause.Uncheck()
		u.log.Info().Msg("Capture resumed from tray")
	} else {
		u.app.Pause()
		u.mPause.Check()
		u.log.Info().Msg("Capture paused from tray")
	}
}

func (u *UI) showAbout() {
	fmt.Printf("keychordd %s (%s)\nGlobal hotkey daemon\n", u.version, u.commit)
}

func (u *UI) onExit() {
	// Cleanup
}

// updateStatus sets the tray title with keyboard emoji and status indicator
func (u *UI) updateStatus(status string) {
	emoji := emojiForStatus(status)
	systray.SetTitle(fmt.Sprintf("⌨️ %s", emoji))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "listening":
		return "🟢" // Green - capturing
	case "paused":
		return "🟡" // Yellow - bindings unregistered
	case "error":
		return "⚪️" // White - error
	default:
		return "🟢" // Green - default to capturing
	}
}
