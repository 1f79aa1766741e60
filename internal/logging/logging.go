// Package logging builds the diagnostics logger.
//
// Diagnostics are separate from what the user sees on the menu: they go to
// stderr in logfmt-ish text and stay quiet unless something is wrong, or
// verbose is on.
package logging

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/store/textstore"
)

// New returns a logger writing to w. Verbose lowers the level to debug.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "todo",
		Level:  level,
	})
}

// LoadReport logs what the store reported while loading. Dropped lines are
// debug-level only, so the default output is unchanged by a lossy load.
func LoadReport(l *log.Logger, path string, rep textstore.Report) {
	if rep.Missing {
		l.Debug("store file not found", "path", path)
		return
	}
	for _, d := range rep.Dropped {
		l.Debug("dropped stored line", "path", path, "line", d.Line, "reason", d.Reason, "text", d.Text)
	}
	if len(rep.Dropped) > 0 {
		l.Debug("load finished with dropped lines", "path", path, "dropped", len(rep.Dropped))
	}
}
