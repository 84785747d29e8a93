package app

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/gen2brain/beeep"
	"github.com/petems/keychord"
	"github.com/petems/keychord/internal/config"
	"github.com/rs/zerolog"
)

// Registrar is the slice of the hotkey engine the app consumes.
type Registrar interface {
	Register(keychord.Hotkey, keychord.Callback) (keychord.RegistrationToken, error)
	Unregister(keychord.RegistrationToken) error
}

// Actions abstracts the side effects a binding can trigger.
type Actions interface {
	Notify(title, message string) error
	Copy(text string) error
	Run(name string, args []string) error
}

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetListening()
	SetPaused()
	SetError()
}

type Config struct {
	Hook          Registrar
	Config        *config.Config
	Logger        zerolog.Logger
	Actions       Actions       // Optional - defaults to system actions
	StatusUpdater StatusUpdater // Optional - can be nil
}

type App struct {
	hook   Registrar
	cfg    *config.Config
	log    zerolog.Logger
	act    Actions
	status StatusUpdater

	mu     sync.Mutex
	tokens map[string]keychord.RegistrationToken // chord descriptor -> live token
	paused bool
}

func New(cfg Config) *App {
	act := cfg.Actions
	if act == nil {
		act = systemActions{}
	}
	return &App{
		hook:   cfg.Hook,
		cfg:    cfg.Config,
		log:    cfg.Logger,
		act:    act,
		status: cfg.StatusUpdater,
		tokens: make(map[string]keychord.RegistrationToken),
	}
}

// Start validates and registers every configured binding. A bad binding
// rolls back the ones already registered.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, b := range a.cfg.Bindings {
		if err := validate(b); err != nil {
			a.unregisterAllLocked()
			return err
		}
	}
	if err := a.registerAllLocked(); err != nil {
		a.unregisterAllLocked()
		return err
	}

	if a.status != nil {
		a.status.SetListening()
	}
	return nil
}

// Pause unregisters every binding without tearing the engine down.
func (a *App) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.paused {
		return
	}
	a.unregisterAllLocked()
	a.paused = true

	a.log.Info().Msg("Capture paused")
	if a.status != nil {
		a.status.SetPaused()
	}
}

// Resume re-registers the configured bindings after a Pause.
func (a *App) Resume() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.paused {
		return nil
	}
	if err := a.registerAllLocked(); err != nil {
		a.unregisterAllLocked()
		if a.status != nil {
			a.status.SetError()
		}
		return err
	}
	a.paused = false

	a.log.Info().Msg("Capture resumed")
	if a.status != nil {
		a.status.SetListening()
	}
	return nil
}

func (a *App) IsPaused() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.paused
}

// Bindings returns the configured bindings for display.
func (a *App) Bindings() []config.Binding {
	return a.cfg.Bindings
}

// Shutdown unregisters everything; the engine itself is closed by the caller.
func (a *App) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unregisterAllLocked()
}

func (a *App) registerAllLocked() error {
	for _, b := range a.cfg.Bindings {
		hk, err := keychord.Parse(b.Chord)
		if err != nil {
			return fmt.Errorf("binding %q: %w", b.Chord, err)
		}
		binding := b
		token, err := a.hook.Register(hk, func(fired keychord.Hotkey) {
			a.perform(fired, binding)
		})
		if err != nil {
			return fmt.Errorf("binding %q: %w", b.Chord, err)
		}
		a.tokens[b.Chord] = token
	}
	return nil
}

func (a *App) unregisterAllLocked() {
	for chord, token := range a.tokens {
		if err := a.hook.Unregister(token); err != nil {
			a.log.Error().Err(err).Str("chord", chord).Msg("Unregister failed")
		}
		delete(a.tokens, chord)
	}
}

func (a *App) perform(fired keychord.Hotkey, b config.Binding) {
	a.log.Info().Stringer("chord", fired).Str("action", b.Action).Msg("Chord fired")

	var err error
	switch b.Action {
	case config.ActionNotify:
		err = a.act.Notify("keychordd", b.Message)
	case config.ActionCopy:
		err = a.act.Copy(b.Text)
	case config.ActionRun:
		err = a.act.Run(b.Command[0], b.Command[1:])
	}
	if err != nil {
		a.log.Error().Err(err).Str("action", b.Action).Msg("Action failed")
		if a.status != nil {
			a.status.SetError()
		}
	}
}

func validate(b config.Binding) error {
	if _, err := keychord.Parse(b.Chord); err != nil {
		return fmt.Errorf("binding %q: %w", b.Chord, err)
	}
	switch b.Action {
	case config.ActionNotify, config.ActionCopy:
		return nil
	case config.ActionRun:
		if len(b.Command) == 0 {
			return fmt.Errorf("binding %q: run action needs a command", b.Chord)
		}
		return nil
	default:
		return fmt.Errorf("binding %q: unknown action %q", b.Chord, b.Action)
	}
}

// systemActions performs the real side effects.
type systemActions struct{}

func (systemActions) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

func (systemActions) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Run starts the command and does not wait for it.
func (systemActions) Run(name string, args []string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() // reap
	return nil
}
