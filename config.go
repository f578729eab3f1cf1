package dieselctx

import (
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/andewx/dieselctx/driver"
)

// Config holds application metadata and bring-up options for every context.
type Config struct {
	AppName       string `toml:"app_name"`
	AppVersion    string `toml:"app_version"`
	EngineName    string `toml:"engine_name"`
	EngineVersion string `toml:"engine_version"`
	// APIVersion is the Vulkan API version requested at instance creation.
	APIVersion string `toml:"api_version"`

	// Diagnostics enables the validation layer and the debug messenger.
	// The default depends on the build: off with the release tag, on otherwise.
	Diagnostics     bool   `toml:"diagnostics"`
	ValidationLayer string `toml:"validation_layer"`

	LogLevel string `toml:"log_level"`

	PrimaryWindow WindowAttributes `toml:"primary_window"`
	// Windows are opened after the primary window. A failure here only
	// loses that window.
	Windows []WindowAttributes `toml:"windows"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		AppName:         "Vulkan App",
		AppVersion:      "1.0.0",
		EngineName:      "No Engine",
		EngineVersion:   "1.0.0",
		APIVersion:      "1.3.0",
		Diagnostics:     defaultDiagnostics,
		ValidationLayer: driver.LayerKhronosValidation,
		LogLevel:        levelName(defaultLevel),
		PrimaryWindow:   DefaultWindowAttributes("Vulkan App"),
		Windows:         []WindowAttributes{DefaultWindowAttributes("secondary window")},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "read config")
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the result.
// When the document has no windows table the default secondary window is kept.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	defaults := cfg.Windows
	cfg.Windows = nil
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if cfg.Windows == nil {
		cfg.Windows = defaults
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.AppName == "" {
		return errors.New("app_name must not be empty")
	}
	if c.EngineName == "" {
		return errors.New("engine_name must not be empty")
	}
	for _, v := range []struct{ key, value string }{
		{"app_version", c.AppVersion},
		{"engine_version", c.EngineVersion},
		{"api_version", c.APIVersion},
	} {
		if _, err := driver.ParseVersion(v.value); err != nil {
			return errors.Wrapf(err, "%s %q", v.key, v.value)
		}
	}
	if c.Diagnostics && c.ValidationLayer == "" {
		return errors.New("validation_layer must be set when diagnostics are enabled")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.PrimaryWindow.validate(); err != nil {
		return errors.WithMessage(err, "primary_window")
	}
	for i, w := range c.Windows {
		if err := w.validate(); err != nil {
			return errors.WithMessagef(err, "windows[%d]", i)
		}
	}
	return nil
}

// Level gets the configured log level, falling back to the build default.
func (c Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return defaultLevel
	}
	return lvl
}

// instanceInfo builds the application metadata half of the instance create info.
func (c Config) instanceInfo() (driver.InstanceInfo, error) {
	appVersion, err := driver.ParseVersion(c.AppVersion)
	if err != nil {
		return driver.InstanceInfo{}, errors.Wrap(err, "app_version")
	}
	engineVersion, err := driver.ParseVersion(c.EngineVersion)
	if err != nil {
		return driver.InstanceInfo{}, errors.Wrap(err, "engine_version")
	}
	apiVersion, err := driver.ParseVersion(c.APIVersion)
	if err != nil {
		return driver.InstanceInfo{}, errors.Wrap(err, "api_version")
	}
	return driver.InstanceInfo{
		AppName:       c.AppName,
		AppVersion:    appVersion,
		EngineName:    c.EngineName,
		EngineVersion: engineVersion,
		APIVersion:    apiVersion,
	}, nil
}

func (w WindowAttributes) validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return errors.Errorf("window %q has invalid size %dx%d", w.Title, w.Width, w.Height)
	}
	return nil
}
