//go:build debug && !release

package dieselctx

import "log/slog"

var (
	defaultLevel       = slog.LevelDebug
	defaultDiagnostics = true
)
