// Package diag builds the loader's diagnostic sink (SPEC_FULL.md §6, AMBIENT
// STACK "Logging / diagnostics"): a structured logger that always writes a
// human-readable trace to stderr and, when a trace file is configured,
// fans out a second, machine-parseable JSON trace of every relocation
// applied.
package diag

import (
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	slogmulti "github.com/samber/slog-multi"
)

// Options configures the sink.
type Options struct {
	// TraceWriter, if non-nil, receives a JSON-formatted trace of every
	// log record in addition to the stderr text handler.
	TraceWriter io.Writer
	// NoColor turns fatih/color output (e.g. FormatStatus) off globally,
	// independent of terminal detection. The stderr text handler itself
	// writes plain, uncolored text either way.
	NoColor bool
	// Verbose enables slog.LevelDebug; otherwise the sink is
	// slog.LevelInfo.
	Verbose bool
}

// New builds the loader's logger. With no TraceWriter it behaves like a
// plain text-to-stderr logger; slog-multi is still used as the single
// handler implementation so adding a second sink later is a one-line
// change at the call site, not a restructuring.
func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(colorableStderr(opts.NoColor), &slog.HandlerOptions{Level: level})

	handlers := []slog.Handler{textHandler}
	if opts.TraceWriter != nil {
		handlers = append(handlers, slog.NewJSONHandler(opts.TraceWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

// colorableStderr returns stderr unwrapped; the text handler does not
// color level names. When noColor is set it also forces color.NoColor on
// (color.NoColor already tracks terminal detection), which affects the
// fatih/color helpers below.
func colorableStderr(noColor bool) io.Writer {
	if noColor {
		color.NoColor = true
	}
	return os.Stderr
}

var (
	relocColor = color.New(color.FgCyan)
	okColor    = color.New(color.FgGreen, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
)

// FormatRelocType renders a relocation type name in color for the CLI's
// own progress printing (as opposed to the structured slog fields). No
// command in cmd/ calls it at present.
func FormatRelocType(name string) string {
	return relocColor.Sprint(name)
}

// FormatStatus renders a terse success/failure label.
func FormatStatus(ok bool) string {
	if ok {
		return okColor.Sprint("ok")
	}
	return failColor.Sprint("failed")
}
