// Package config loads settings for the todo CLI.
//
// Sources, lowest priority first:
//  1. Defaults
//  2. Config file (todo.toml in the working directory, or -config PATH)
//  3. Environment variables (TODO_*)
//  4. CLI flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/idilsaglam/todolist/internal/ui"
)

const (
	DefaultConfigFile = "todo.toml"
	DefaultStoreFile  = "todos.txt"
)

// Config is the resolved configuration.
type Config struct {
	// Store is the path of the todo file.
	Store string `toml:"store"`
	// Color is auto, always or never.
	Color string `toml:"color"`
	// Theme is classic, neon or mono.
	Theme string `toml:"theme"`
	// Verbose logs every line dropped while loading the store.
	Verbose bool `toml:"verbose"`
	// Readline enables line editing and history when stdin is a terminal.
	Readline bool `toml:"readline"`
	// History is the readline history file; empty keeps no history.
	History string `toml:"history"`

	// TUI opens the full-screen browser instead of the numbered menu.
	// Flag only.
	TUI bool `toml:"-"`
	// File is the config file that was read, if any.
	File string `toml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store:    DefaultStoreFile,
		Color:    string(ui.ColorAuto),
		Theme:    "classic",
		Readline: true,
	}
}

// flagValues holds what the command line asked for. Only flags that were
// actually set are applied, so file and env values survive unset flags.
type flagValues struct {
	config   string
	store    string
	color    string
	theme    string
	verbose  bool
	readline bool
	history  string
	tui      bool
}

// Load resolves configuration from all sources. fs receives the flag
// definitions; args are the command-line arguments without the program name.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	var fv flagValues
	fs.StringVar(&fv.config, "config", "", "config file (default ./"+DefaultConfigFile+" if present)")
	fs.StringVar(&fv.store, "store", "", "todo file path (default ./"+DefaultStoreFile+")")
	fs.StringVar(&fv.color, "color", "", "colour output: auto, always or never")
	fs.StringVar(&fv.theme, "theme", "", "theme: "+strings.Join(ui.ThemeNames, ", "))
	fs.BoolVar(&fv.verbose, "verbose", false, "log lines dropped while loading the todo file")
	fs.BoolVar(&fv.readline, "readline", true, "line editing when stdin is a terminal")
	fs.StringVar(&fv.history, "history", "", "readline history file")
	fs.BoolVar(&fv.tui, "tui", false, "open the full-screen browser instead of the menu")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	// 1. Defaults
	cfg := Defaults()

	// 2. Config file
	path, explicit := fv.config, fv.config != ""
	if !explicit {
		path = DefaultConfigFile
	}
	switch err := loadFile(&cfg, path); {
	case err == nil:
		cfg.File = path
	case !explicit && errors.Is(err, os.ErrNotExist):
		// no project config file
	default:
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}

	// 3. Environment
	if err := loadFromEnv(&cfg); err != nil {
		return nil, err
	}

	// 4. Flags
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "store":
			cfg.Store = fv.store
		case "color":
			cfg.Color = fv.color
		case "theme":
			cfg.Theme = fv.theme
		case "verbose":
			cfg.Verbose = fv.verbose
		case "readline":
			cfg.Readline = fv.readline
		case "history":
			cfg.History = fv.history
		case "tui":
			cfg.TUI = fv.tui
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("TODO_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_HISTORY"); v != "" {
		cfg.History = v
	}
	if v := os.Getenv("TODO_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TODO_VERBOSE: %w", err)
		}
		cfg.Verbose = b
	}
	return nil
}

// Validate checks values that have a fixed set of spellings.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store) == "" {
		return fmt.Errorf("store path is empty")
	}
	if _, err := ui.ParseColorMode(c.Color); err != nil {
		return err
	}
	if _, ok := ui.ThemeByName(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(ui.ThemeNames, ", "))
	}
	return nil
}

// ColorMode is the parsed Color value. Call after Validate.
func (c *Config) ColorMode() ui.ColorMode {
	m, _ := ui.ParseColorMode(c.Color)
	return m
}

// UITheme is the theme named by Theme. Call after Validate.
func (c *Config) UITheme() ui.Theme {
	t, _ := ui.ThemeByName(c.Theme)
	return t
}
