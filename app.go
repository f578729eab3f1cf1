package dieselctx

import (
	"log/slog"

	"github.com/andewx/dieselctx/driver"
)

// App drives an Engine from the window system's lifecycle callbacks.
// The engine exists only between Resumed and Suspended.
type App struct {
	ws     WindowSystem
	cfg    Config
	loader driver.Loader
	log    *slog.Logger

	engine *Engine
}

// NewApp returns a suspended App.
func NewApp(ws WindowSystem, cfg Config, loader driver.Loader, log *slog.Logger) *App {
	return &App{ws: ws, cfg: cfg, loader: loader, log: orDefault(log)}
}

// Resumed builds the engine and opens the configured secondary windows.
// A primary window failure is returned and leaves the App suspended. A
// secondary window failure is logged and only that window is lost.
func (a *App) Resumed() error {
	if a.engine != nil {
		return nil
	}
	engine, err := NewEngine(a.ws, a.cfg, a.loader, a.log)
	if err != nil {
		return err
	}
	a.engine = engine
	for _, attrs := range a.cfg.Windows {
		if _, err := engine.CreateWindow(attrs); err != nil {
			a.log.Error("could not open secondary window", "title", attrs.Title, "err", err)
		}
	}
	return nil
}

// Suspended shuts the engine down and drops it.
func (a *App) Suspended() {
	if a.engine == nil {
		return
	}
	a.engine.Shutdown()
	a.engine = nil
}

// WindowEvent forwards ev to the engine. Events that arrive while
// suspended are dropped.
func (a *App) WindowEvent(ev Event) {
	if a.engine == nil {
		return
	}
	a.engine.HandleEvent(ev)
}

// ShouldExit reports whether the primary window was closed.
func (a *App) ShouldExit() bool {
	return a.engine != nil && a.engine.ExitRequested()
}

// Engine gets the running engine, or nil while suspended.
func (a *App) Engine() *Engine { return a.engine }
