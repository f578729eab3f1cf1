package dieselctx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andewx/dieselctx/driver"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaultDiagnostics, cfg.Diagnostics)
	assert.Equal(t, defaultLevel, cfg.Level())
	require.Len(t, cfg.Windows, 1)
	assert.Equal(t, "secondary window", cfg.Windows[0].Title)
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
app_name = "viewer"
app_version = "2.1.0"
api_version = "1.2.0"
diagnostics = false
log_level = "trace"

[primary_window]
title = "main"
width = 1280
height = 720

[[windows]]
title = "tools"
width = 300
height = 600
visible = false
`))
	require.NoError(t, err)
	assert.Equal(t, "viewer", cfg.AppName)
	assert.Equal(t, "No Engine", cfg.EngineName)
	assert.False(t, cfg.Diagnostics)
	assert.Equal(t, LevelTrace, cfg.Level())
	assert.Equal(t, "main", cfg.PrimaryWindow.Title)
	assert.Equal(t, 1280, cfg.PrimaryWindow.Width)
	require.Len(t, cfg.Windows, 1)
	assert.Equal(t, "tools", cfg.Windows[0].Title)
	assert.False(t, cfg.Windows[0].Visible)

	info, err := cfg.instanceInfo()
	require.NoError(t, err)
	assert.Equal(t, driver.MakeVersion(2, 1, 0), info.AppVersion)
	assert.Equal(t, driver.MakeVersion(1, 2, 0), info.APIVersion)
}

func TestParseConfigKeepsDefaultWindows(t *testing.T) {
	cfg, err := ParseConfig([]byte(`app_name = "viewer"`))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Windows, cfg.Windows)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"syntax", `app_name = `, "decode config"},
		{"empty name", `app_name = ""`, "app_name"},
		{"bad version", `api_version = "one"`, "api_version"},
		{"bad level", `log_level = "loud"`, "log level"},
		{"no layer", "diagnostics = true\nvalidation_layer = \"\"", "validation_layer"},
		{"bad primary", "[primary_window]\nwidth = 0", "primary_window"},
		{"bad secondary", "[[windows]]\ntitle = \"x\"\nheight = -1", "windows[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dieselctx.toml")
	require.NoError(t, os.WriteFile(path, []byte(`engine_name = "diesel"`), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "diesel", cfg.EngineName)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
