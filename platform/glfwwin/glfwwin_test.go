//go:build integration

package glfwwin

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/dieselctx"
	"github.com/andewx/dieselctx/driver/vulkan"
)

func init() {
	runtime.LockOSThread()
}

func TestOpenAndCloseWindows(t *testing.T) {
	sys, err := Init()
	require.NoError(t, err)
	defer sys.Terminate()

	cfg := dieselctx.DefaultConfig()
	cfg.PrimaryWindow = dieselctx.DefaultWindowAttributes("integration")
	cfg.PrimaryWindow.Width, cfg.PrimaryWindow.Height = 500, 500
	log := dieselctx.NewLogger(os.Stderr, dieselctx.LevelTrace)

	app := dieselctx.NewApp(sys, cfg, vulkan.NewLoader(sys.VulkanProcAddr), log)
	require.NoError(t, app.Resumed())
	engine := app.Engine()
	require.NotNil(t, engine)
	assert.Equal(t, engine.Len(), sys.Len())

	sys.WaitEvents(100*time.Millisecond, app.WindowEvent)

	for _, id := range engine.WindowIDs() {
		if id != engine.Primary() {
			app.WindowEvent(dieselctx.CloseRequested{ID: id})
		}
	}
	assert.Equal(t, 1, engine.Len())
	assert.Equal(t, 1, sys.Len())

	app.WindowEvent(dieselctx.CloseRequested{ID: engine.Primary()})
	assert.True(t, app.ShouldExit())
	app.Suspended()
	assert.Equal(t, 0, sys.Len())
}
