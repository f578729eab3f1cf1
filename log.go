package dieselctx

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// LevelTrace is below slog.LevelDebug and carries verbose driver chatter.
const LevelTrace = slog.Level(-8)

// NewLogger returns a text logger writing to w at the given level.
// LevelTrace records are printed as TRACE.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl <= LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}))
}

// LevelFromFlags returns the level for the command line verbosity flags:
//   - vv: [LevelTrace]
//   - v: [slog.LevelDebug]
//   - q: [slog.LevelError]
//   - (default: the build default)
//
// The flags are evaluated in that order.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return LevelTrace
	case v:
		return slog.LevelDebug
	case q:
		return slog.LevelError
	default:
		return defaultLevel
	}
}

// ParseLevel accepts trace, debug, info, warn and error, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	if strings.EqualFold(s, "trace") {
		return LevelTrace, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.Wrapf(err, "log level %q", s)
	}
	return lvl, nil
}

func levelName(l slog.Level) string {
	if l <= LevelTrace {
		return "trace"
	}
	return strings.ToLower(l.String())
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
