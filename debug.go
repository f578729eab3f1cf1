package dieselctx

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/andewx/dieselctx/driver"
)

// DefaultMessengerConfig accepts every severity in the general, validation
// and performance categories and relays messages to log. The same value is
// used for the instance-creation chain and for the runtime messenger.
func DefaultMessengerConfig(log *slog.Logger) driver.MessengerConfig {
	log = orDefault(log)
	return driver.MessengerConfig{
		Severities: driver.SeverityAll,
		Categories: driver.CategoryGeneral | driver.CategoryValidation | driver.CategoryPerformance,
		Callback: func(severity driver.Severity, category driver.Category, message string) {
			relayDebugMessage(log, severity, category, message)
		},
	}
}

// relayDebugMessage may run on a driver thread. It only formats and forwards.
func relayDebugMessage(log *slog.Logger, severity driver.Severity, category driver.Category, message string) {
	log.Log(context.Background(), debugLevel(severity), "vulkan",
		slog.String("category", category.String()),
		slog.String("message", message))
}

func debugLevel(severity driver.Severity) slog.Level {
	switch {
	case severity >= driver.SeverityError:
		return slog.LevelError
	case severity >= driver.SeverityWarning:
		return slog.LevelWarn
	case severity >= driver.SeverityInfo:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// DebugReporter owns the runtime messenger of one instance.
type DebugReporter struct {
	instance  driver.Instance
	messenger driver.Messenger
}

// InstallDebugReporter attaches a messenger to instance.
func InstallDebugReporter(instance driver.Instance, cfg driver.MessengerConfig) (*DebugReporter, error) {
	m, err := instance.CreateMessenger(cfg)
	if err != nil {
		return nil, &InitError{Kind: InstanceCreationError, Err: errors.Wrap(err, "create debug messenger")}
	}
	return &DebugReporter{instance: instance, messenger: m}, nil
}

// Uninstall destroys the messenger. It must run before the instance is destroyed.
func (r *DebugReporter) Uninstall() {
	if r.messenger == nil {
		return
	}
	r.instance.DestroyMessenger(r.messenger)
	r.messenger = nil
}
