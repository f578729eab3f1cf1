package dieselctx

// WindowID identifies a live OS window. IDs are assigned by the WindowSystem,
// are never reused within a process and are never zero.
type WindowID uint64

// WindowAttributes is the configuration bag for a new window.
type WindowAttributes struct {
	Title     string `toml:"title"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Resizable bool   `toml:"resizable"`
	Visible   bool   `toml:"visible"`
}

// DefaultWindowAttributes returns a visible, resizable 800x600 window.
func DefaultWindowAttributes(title string) WindowAttributes {
	return WindowAttributes{
		Title:     title,
		Width:     800,
		Height:    600,
		Resizable: true,
		Visible:   true,
	}
}

// Window is an OS window owned by the Engine once registered.
type Window interface {
	// ID gets the window identity.
	ID() WindowID
	// Size gets the framebuffer size in pixels.
	Size() (width, height int)
	// RequiredInstanceExtensions gets the instance extensions the platform
	// needs to create a surface for this window.
	RequiredInstanceExtensions() []string
	// Destroy closes the OS window.
	Destroy()
}

// WindowSystem creates OS windows.
type WindowSystem interface {
	CreateWindow(attrs WindowAttributes) (Window, error)
}

// Event is a window lifecycle event delivered by the window system.
type Event interface {
	Target() WindowID
}

// WindowCreated is delivered once the OS window exists.
type WindowCreated struct {
	ID WindowID
}

// CloseRequested is delivered when the user asks to close a window.
type CloseRequested struct {
	ID WindowID
}

// Resized is delivered when the framebuffer size changes.
type Resized struct {
	ID            WindowID
	Width, Height int
}

// RedrawRequested is delivered when the window contents must be refreshed.
type RedrawRequested struct {
	ID WindowID
}

func (e WindowCreated) Target() WindowID   { return e.ID }
func (e CloseRequested) Target() WindowID  { return e.ID }
func (e Resized) Target() WindowID         { return e.ID }
func (e RedrawRequested) Target() WindowID { return e.ID }
