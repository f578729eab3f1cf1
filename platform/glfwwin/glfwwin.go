// Package glfwwin implements dieselctx.WindowSystem with glfw.
//
// Every function in this package must be called from the main OS thread.
package glfwwin

import (
	"time"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/andewx/dieselctx"
)

// System owns glfw and every window it opens. Window callbacks are queued
// and delivered from WaitEvents.
type System struct {
	nextID  dieselctx.WindowID
	windows map[dieselctx.WindowID]*Window
	pending []dieselctx.Event
}

// Init initializes glfw.
func Init() (*System, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "glfw init")
	}
	return &System{windows: make(map[dieselctx.WindowID]*Window)}, nil
}

// Terminate destroys any window still open and terminates glfw.
func (s *System) Terminate() {
	for _, w := range s.windows {
		w.Destroy()
	}
	glfw.Terminate()
}

// VulkanProcAddr resolves vkGetInstanceProcAddr through glfw's loader lookup.
func (s *System) VulkanProcAddr() (unsafe.Pointer, error) {
	if !glfw.VulkanSupported() {
		return nil, errors.New("glfw: vulkan loader not found")
	}
	return glfw.GetVulkanGetInstanceProcAddress(), nil
}

// CreateWindow implements dieselctx.WindowSystem. No client API context is
// created; the window is only a Vulkan surface host.
func (s *System) CreateWindow(attrs dieselctx.WindowAttributes) (dieselctx.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, boolHint(attrs.Resizable))
	glfw.WindowHint(glfw.Visible, boolHint(attrs.Visible))

	glw, err := glfw.CreateWindow(attrs.Width, attrs.Height, attrs.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "glfw create window")
	}
	s.nextID++
	w := &Window{sys: s, id: s.nextID, glw: glw}
	s.windows[w.id] = w

	glw.SetCloseCallback(func(*glfw.Window) {
		s.post(dieselctx.CloseRequested{ID: w.id})
	})
	glw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		s.post(dieselctx.Resized{ID: w.id, Width: width, Height: height})
	})
	glw.SetRefreshCallback(func(*glfw.Window) {
		s.post(dieselctx.RedrawRequested{ID: w.id})
	})
	s.post(dieselctx.WindowCreated{ID: w.id})
	return w, nil
}

func (s *System) post(ev dieselctx.Event) {
	s.pending = append(s.pending, ev)
}

// WaitEvents waits up to timeout for window events and passes each queued
// event to handle in arrival order. Events for windows destroyed in the
// meantime are dropped.
func (s *System) WaitEvents(timeout time.Duration, handle func(dieselctx.Event)) {
	if len(s.pending) == 0 {
		glfw.WaitEventsTimeout(timeout.Seconds())
	} else {
		glfw.PollEvents()
	}
	for len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		if _, ok := s.windows[ev.Target()]; !ok {
			continue
		}
		handle(ev)
	}
}

// Len gets the number of open windows.
func (s *System) Len() int { return len(s.windows) }

// Window is a glfw window.
type Window struct {
	sys *System
	id  dieselctx.WindowID
	glw *glfw.Window
}

func (w *Window) ID() dieselctx.WindowID { return w.id }

// Size gets the framebuffer size in pixels.
func (w *Window) Size() (width, height int) {
	return w.glw.GetFramebufferSize()
}

// RequiredInstanceExtensions gets the surface extensions glfw needs on this platform.
func (w *Window) RequiredInstanceExtensions() []string {
	return w.glw.GetRequiredInstanceExtensions()
}

// Destroy closes the window. Calling it again does nothing.
func (w *Window) Destroy() {
	if w.glw == nil {
		return
	}
	w.glw.Destroy()
	w.glw = nil
	delete(w.sys.windows, w.id)
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}
