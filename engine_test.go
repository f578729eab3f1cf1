package dieselctx

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/dieselctx/driver/drivertest"
)

func newTestEngine(t *testing.T, d *drivertest.Driver, ws *fakeWindowSystem) *Engine {
	t.Helper()
	withHostOS(t, "linux")
	log, _ := testLogger()
	e, err := NewEngine(ws, testConfig(true), d, log)
	require.NoError(t, err)
	return e
}

// assertBalanced checks that every registered window has a live context and
// that nothing else is alive.
func assertBalanced(t *testing.T, e *Engine, d *drivertest.Driver, ws *fakeWindowSystem) {
	t.Helper()
	assert.Equal(t, e.Len(), len(ws.live), "windows")
	assert.Equal(t, e.Len(), d.Created(drivertest.KindInstance)-d.Destroyed(drivertest.KindInstance), "instances")
	assert.Equal(t, e.Len(), d.Created(drivertest.KindDevice)-d.Destroyed(drivertest.KindDevice), "devices")
	for _, id := range e.WindowIDs() {
		_, ok := ws.live[id]
		assert.True(t, ok, "window %d registered but not live", id)
		r, ok := e.Renderer(id)
		require.True(t, ok)
		assert.NotNil(t, r.Context().Device())
	}
}

func TestEngineInitialize(t *testing.T) {
	d := drivertest.New(drivertest.GraphicsDevice("gpu"))
	ws := newFakeWindowSystem()
	e := newTestEngine(t, d, ws)

	assert.Equal(t, 1, e.Len())
	assert.Equal(t, []WindowID{e.Primary()}, e.WindowIDs())
	win, ok := e.Window(e.Primary())
	require.True(t, ok)
	assert.Equal(t, e.Primary(), win.ID())
	assert.Equal(t, "Vulkan App", ws.windows[0].attrs.Title)
	r, ok := e.Renderer(e.Primary())
	require.True(t, ok)
	w, h := r.Extent()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assertBalanced(t, e, d, ws)

	e.Shutdown()
	assert.Equal(t, 0, d.Live())
	assert.Empty(t, ws.live)
}

func TestEngineInitializeFailures(t *testing.T) {
	t.Run("window", func(t *testing.T) {
		d := drivertest.New(drivertest.GraphicsDevice("gpu"))
		ws := newFakeWindowSystem()
		ws.failTitle = "Vulkan App"
		_, err := NewEngine(ws, testConfig(true), d, nil)
		assert.True(t, errors.Is(err, ErrWindowCreation))
		assert.Empty(t, d.Calls())
	})
	t.Run("context", func(t *testing.T) {
		withHostOS(t, "linux")
		d := drivertest.New()
		ws := newFakeWindowSystem()
		_, err := NewEngine(ws, testConfig(true), d, nil)
		assert.True(t, errors.Is(err, ErrNoSuitableDevice))
		assert.Contains(t, err.Error(), "primary window")
		assert.Empty(t, ws.live)
		assert.Equal(t, 1, ws.windows[0].destroyed)
		assert.Equal(t, 0, d.Live())
	})
}

func TestEngineCreateAndCloseWindows(t *testing.T) {
	d := drivertest.New(drivertest.GraphicsDevice("gpu"))
	ws := newFakeWindowSystem()
	e := newTestEngine(t, d, ws)

	a, err := e.CreateWindow(DefaultWindowAttributes("a"))
	require.NoError(t, err)
	b, err := e.CreateWindow(DefaultWindowAttributes("b"))
	require.NoError(t, err)
	assert.Equal(t, []WindowID{e.Primary(), a, b}, e.WindowIDs())
	assertBalanced(t, e, d, ws)

	e.WindowClosed(a)
	assert.Equal(t, []WindowID{e.Primary(), b}, e.WindowIDs())
	_, ok := e.Renderer(a)
	assert.False(t, ok)
	_, ok = e.Window(a)
	assert.False(t, ok)
	assert.False(t, e.ExitRequested())
	assertBalanced(t, e, d, ws)

	e.WindowClosed(a)
	e.WindowClosed(WindowID(999))
	assertBalanced(t, e, d, ws)

	e.Shutdown()
	assert.Equal(t, 0, d.Live())
	assert.Empty(t, ws.live)
	assert.NotPanics(t, e.Shutdown)
}

func TestEnginePrimaryCloseRequestsExit(t *testing.T) {
	d := drivertest.New(drivertest.GraphicsDevice("gpu"))
	ws := newFakeWindowSystem()
	e := newTestEngine(t, d, ws)
	_, err := e.CreateWindow(DefaultWindowAttributes("secondary"))
	require.NoError(t, err)

	e.WindowClosed(e.Primary())
	assert.True(t, e.ExitRequested())
	assert.Equal(t, 2, e.Len(), "primary close removes nothing")
	assertBalanced(t, e, d, ws)

	e.Shutdown()
	assert.Equal(t, 0, d.Live())
	assert.Empty(t, ws.live)
}

func TestEngineCreateWindowContextFailure(t *testing.T) {
	d := drivertest.New(drivertest.GraphicsDevice("gpu"))
	ws := newFakeWindowSystem()
	e := newTestEngine(t, d, ws)

	d.FailDevice = errors.New("lost")
	_, err := e.CreateWindow(DefaultWindowAttributes("doomed"))
	assert.True(t, errors.Is(err, ErrDeviceCreation))
	assert.Equal(t, 1, e.Len())
	assert.Equal(t, 1, ws.windows[1].destroyed, "window without a context must be closed")
	assertBalanced(t, e, d, ws)

	d.FailDevice = nil
	ws.failTitle = "no display"
	_, err = e.CreateWindow(DefaultWindowAttributes("no display"))
	assert.True(t, errors.Is(err, ErrWindowCreation))
	assertBalanced(t, e, d, ws)

	e.Shutdown()
	assert.Equal(t, 0, d.Live())
}

func TestEngineHandleEvent(t *testing.T) {
	d := drivertest.New(drivertest.GraphicsDevice("gpu"))
	ws := newFakeWindowSystem()
	e := newTestEngine(t, d, ws)
	id, err := e.CreateWindow(DefaultWindowAttributes("events"))
	require.NoError(t, err)

	e.HandleEvent(WindowCreated{ID: id})
	e.HandleEvent(RedrawRequested{ID: id})
	e.HandleEvent(Resized{ID: id, Width: 1024, Height: 768})
	r, ok := e.Renderer(id)
	require.True(t, ok)
	w, h := r.Extent()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)

	e.HandleEvent(Resized{ID: 999, Width: 1, Height: 1})
	e.HandleEvent(CloseRequested{ID: id})
	assert.Equal(t, 1, e.Len())
	e.HandleEvent(CloseRequested{ID: e.Primary()})
	assert.True(t, e.ExitRequested())
	assertBalanced(t, e, d, ws)
	e.Shutdown()
}

func TestEngineRandomCreateCloseSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := drivertest.New(drivertest.GraphicsDevice("gpu"))
	ws := newFakeWindowSystem()
	e := newTestEngine(t, d, ws)

	for step := 0; step < 200; step++ {
		switch rng.Intn(4) {
		case 0, 1:
			_, err := e.CreateWindow(DefaultWindowAttributes("w"))
			require.NoError(t, err)
		case 2:
			ids := e.WindowIDs()
			e.WindowClosed(ids[rng.Intn(len(ids))])
		case 3:
			d.FailDevice = errors.New("flaky")
			_, err := e.CreateWindow(DefaultWindowAttributes("w"))
			require.Error(t, err)
			d.FailDevice = nil
		}
		assertBalanced(t, e, d, ws)
	}
	e.Shutdown()
	assert.Equal(t, 0, d.Live())
	assert.Empty(t, ws.live)
}
