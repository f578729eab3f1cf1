package dieselctx

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/andewx/dieselctx/driver"
)

// registryEntry keeps a window and its renderer together so one can never
// be registered or removed without the other.
type registryEntry struct {
	window   Window
	renderer *Renderer
}

// Engine is the registry of open windows and their renderers. The first
// window it opens is the primary window; closing it requests exit.
//
// An Engine is owned by the thread running the window event loop.
type Engine struct {
	ws     WindowSystem
	cfg    Config
	loader driver.Loader
	log    *slog.Logger

	entries       map[WindowID]*registryEntry
	primary       WindowID
	exitRequested bool
}

// NewEngine opens the primary window described by cfg.PrimaryWindow and
// creates its renderer.
func NewEngine(ws WindowSystem, cfg Config, loader driver.Loader, log *slog.Logger) (*Engine, error) {
	e := &Engine{
		ws:      ws,
		cfg:     cfg,
		loader:  loader,
		log:     orDefault(log),
		entries: make(map[WindowID]*registryEntry),
	}
	id, err := e.CreateWindow(cfg.PrimaryWindow)
	if err != nil {
		return nil, errors.WithMessage(err, "primary window")
	}
	e.primary = id
	return e, nil
}

// CreateWindow opens a window and creates its renderer. If the renderer
// cannot be created the window is destroyed and nothing is registered.
func (e *Engine) CreateWindow(attrs WindowAttributes) (WindowID, error) {
	win, err := e.ws.CreateWindow(attrs)
	if err != nil {
		return 0, &InitError{Kind: WindowCreationError, Err: errors.Wrapf(err, "create window %q", attrs.Title)}
	}
	r, err := NewRenderer(e.cfg, e.loader, win, e.log)
	if err != nil {
		win.Destroy()
		return 0, err
	}
	id := win.ID()
	e.entries[id] = &registryEntry{window: win, renderer: r}
	e.log.Info("opened window", "window", id, "title", attrs.Title, "device", r.Context().DeviceName())
	return id, nil
}

// WindowClosed handles a close request. Closing the primary window only
// requests exit; any other window is destroyed with its renderer.
func (e *Engine) WindowClosed(id WindowID) {
	if id == e.primary {
		e.log.Debug("primary window closed, exit requested", "window", id)
		e.exitRequested = true
		return
	}
	entry, ok := e.entries[id]
	if !ok {
		e.log.Debug("close for unknown window", "window", id)
		return
	}
	delete(e.entries, id)
	entry.destroy()
	e.log.Info("closed window", "window", id)
}

// HandleEvent dispatches a window lifecycle event.
func (e *Engine) HandleEvent(ev Event) {
	switch ev := ev.(type) {
	case WindowCreated:
		e.log.Debug("window created", "window", ev.ID)
	case CloseRequested:
		e.WindowClosed(ev.ID)
	case Resized:
		if entry, ok := e.entries[ev.ID]; ok {
			entry.renderer.Resize(ev.Width, ev.Height)
			e.log.Debug("window resized", "window", ev.ID, "width", ev.Width, "height", ev.Height)
		}
	case RedrawRequested:
		e.log.Log(context.Background(), LevelTrace, "redraw requested", "window", ev.ID)
	}
}

// Shutdown destroys every renderer and window and empties the registry.
func (e *Engine) Shutdown() {
	for id, entry := range e.entries {
		entry.destroy()
		delete(e.entries, id)
	}
	e.log.Debug("engine shut down")
}

func (entry *registryEntry) destroy() {
	entry.renderer.Destroy()
	entry.window.Destroy()
}

// Primary gets the primary window id.
func (e *Engine) Primary() WindowID { return e.primary }

// Len gets the number of registered windows.
func (e *Engine) Len() int { return len(e.entries) }

// WindowIDs gets the registered window ids in ascending order.
func (e *Engine) WindowIDs() []WindowID {
	ids := maps.Keys(e.entries)
	slices.Sort(ids)
	return ids
}

// Renderer gets the renderer registered for id.
func (e *Engine) Renderer(id WindowID) (*Renderer, bool) {
	entry, ok := e.entries[id]
	if !ok {
		return nil, false
	}
	return entry.renderer, true
}

// Window gets the window registered for id.
func (e *Engine) Window(id WindowID) (Window, bool) {
	entry, ok := e.entries[id]
	if !ok {
		return nil, false
	}
	return entry.window, true
}

// ExitRequested reports whether the primary window was closed.
func (e *Engine) ExitRequested() bool { return e.exitRequested }
