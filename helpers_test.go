package dieselctx

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/andewx/dieselctx/driver"
	"github.com/andewx/dieselctx/driver/drivertest"
)

type fakeWindow struct {
	ws         *fakeWindowSystem
	id         WindowID
	attrs      WindowAttributes
	extensions []string
	destroyed  int
}

func (w *fakeWindow) ID() WindowID                         { return w.id }
func (w *fakeWindow) Size() (int, int)                     { return w.attrs.Width, w.attrs.Height }
func (w *fakeWindow) RequiredInstanceExtensions() []string { return w.extensions }

func (w *fakeWindow) Destroy() {
	w.destroyed++
	delete(w.ws.live, w.id)
}

// fakeWindowSystem hands out fakeWindows and counts the live ones.
type fakeWindowSystem struct {
	extensions []string
	// failTitle makes CreateWindow fail for windows with this title.
	failTitle string

	nextID  WindowID
	live    map[WindowID]*fakeWindow
	windows []*fakeWindow
}

func newFakeWindowSystem() *fakeWindowSystem {
	return &fakeWindowSystem{
		extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		live:       map[WindowID]*fakeWindow{},
	}
}

func (ws *fakeWindowSystem) CreateWindow(attrs WindowAttributes) (Window, error) {
	if ws.failTitle != "" && attrs.Title == ws.failTitle {
		return nil, errors.New("no display")
	}
	ws.nextID++
	w := &fakeWindow{ws: ws, id: ws.nextID, attrs: attrs, extensions: ws.extensions}
	ws.live[w.id] = w
	ws.windows = append(ws.windows, w)
	return w, nil
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&buf, LevelTrace), &buf
}

func testConfig(diagnostics bool) Config {
	cfg := DefaultConfig()
	cfg.Diagnostics = diagnostics
	return cfg
}

// withHostOS runs the test as if on goos.
func withHostOS(t *testing.T, goos string) {
	prev := hostOS
	hostOS = goos
	t.Cleanup(func() { hostOS = prev })
}

func newInstance(t *testing.T, d *drivertest.Driver) driver.Instance {
	t.Helper()
	entry, err := d.Load()
	require.NoError(t, err)
	inst, err := entry.CreateInstance(driver.InstanceInfo{})
	require.NoError(t, err)
	return inst
}

func physicalDevice(t *testing.T, dev drivertest.Device) driver.PhysicalDevice {
	t.Helper()
	gpus, err := newInstance(t, drivertest.New(dev)).PhysicalDevices()
	require.NoError(t, err)
	require.Len(t, gpus, 1)
	return gpus[0]
}
