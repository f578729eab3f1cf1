//go:build release

package dieselctx

import "log/slog"

var (
	defaultLevel       = slog.LevelWarn
	defaultDiagnostics = false
)
