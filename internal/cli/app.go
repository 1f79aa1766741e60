package cli

import (
	"fmt"
	"io"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/logging"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store/textstore"
	"github.com/idilsaglam/todolist/internal/tui"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Options wires the app to its environment.
type Options struct {
	Config *config.Config
	// In is the menu input. Nil picks readline or plain stdin from Config.
	In  LineReader
	Out io.Writer
	Err io.Writer
}

// Run loads the store, runs the menu (or the browser with -tui) and saves
// the final collection. It returns an exit code (0 ok, 1 I/O failure).
func Run(opt Options) int {
	cfg := opt.Config
	r := ui.NewRenderer(opt.Out, opt.Err, cfg.UITheme(), cfg.ColorMode())
	logger := logging.New(opt.Err, cfg.Verbose)

	store, err := textstore.New(cfg.Store)
	if err != nil {
		r.Fail("store: " + err.Error())
		return 1
	}
	c, rep, err := store.Load()
	if err != nil {
		r.Fail("load: " + err.Error())
		return 1
	}
	logging.LoadReport(logger, store.Path, rep)
	if rep.Missing {
		r.Notice(fmt.Sprintf("No saved todos found at %s. Starting with an empty list.", store.Path))
	}

	if cfg.TUI {
		final, changed, err := tui.Run(c, r)
		if err != nil {
			r.Fail("tui: " + err.Error())
			return 1
		}
		if !changed {
			return 0
		}
		return save(r, store, final)
	}

	in := opt.In
	if in == nil {
		in, err = NewLineReader(cfg.Readline, cfg.History)
		if err != nil {
			logger.Warn("readline unavailable, using plain input", "err", err)
		}
	}
	defer in.Close()

	final, runErr := NewSession(in, r, logger).Run(c)
	code := save(r, store, final)
	if runErr != nil {
		r.Fail(runErr.Error())
		return 1
	}
	return code
}

func save(r *ui.Renderer, store *textstore.Store, c model.Collection) int {
	if err := store.Save(c); err != nil {
		r.Fail("save: " + err.Error())
		return 1
	}
	r.OK(fmt.Sprintf("saved %d todos to %s", c.Len(), store.Path))
	return 0
}
