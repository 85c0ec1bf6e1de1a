package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/mathfield/internal/engine"
	"github.com/dshills/mathfield/internal/logging"
	"github.com/dshills/mathfield/internal/renderer"
	"github.com/dshills/mathfield/internal/renderer/viewport"
)

// Config is the complete host configuration.
type Config struct {
	Field   FieldConfig   `toml:"field" yaml:"field"`
	View    ViewConfig    `toml:"view" yaml:"view"`
	Theme   ThemeConfig   `toml:"theme" yaml:"theme"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Script  ScriptConfig  `toml:"script" yaml:"script"`
}

// FieldConfig bounds the math field.
type FieldConfig struct {
	MaxNodes        int    `toml:"max_nodes" yaml:"max_nodes"`
	MaxBufferSize   int    `toml:"max_buffer_size" yaml:"max_buffer_size"`
	MaxUndoEntries  int    `toml:"max_undo_entries" yaml:"max_undo_entries"`
	DefaultVariable string `toml:"default_variable" yaml:"default_variable"`
}

// ViewConfig sizes the visible window and its scroll margins.
type ViewConfig struct {
	Width        int `toml:"width" yaml:"width"`
	Height       int `toml:"height" yaml:"height"`
	MarginTop    int `toml:"margin_top" yaml:"margin_top"`
	MarginBottom int `toml:"margin_bottom" yaml:"margin_bottom"`
	MarginLeft   int `toml:"margin_left" yaml:"margin_left"`
	MarginRight  int `toml:"margin_right" yaml:"margin_right"`
}

// ThemeConfig holds "#rrggbb" colors; empty means the terminal default.
type ThemeConfig struct {
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`
	Structure  string `toml:"structure" yaml:"structure"`
	Selection  string `toml:"selection" yaml:"selection"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level"`
	File  string `toml:"file" yaml:"file"`
}

// ScriptConfig bounds Lua scripts.
type ScriptConfig struct {
	Timeout string `toml:"timeout" yaml:"timeout"`
	// Init is a Lua file run once when the interactive host starts. The
	// global function macro it may define is bound to F2.
	Init string `toml:"init" yaml:"init"`
}

// Default returns the built-in configuration.
func Default() *Config {
	m := viewport.DefaultMargins()
	return &Config{
		Field: FieldConfig{
			MaxNodes:        engine.DefaultMaxNodes,
			MaxBufferSize:   engine.DefaultMaxBufferSize,
			MaxUndoEntries:  engine.DefaultMaxUndoEntries,
			DefaultVariable: string(engine.DefaultVariable),
		},
		View: ViewConfig{
			Width:        engine.DefaultWindowWidth,
			Height:       engine.DefaultWindowHeight,
			MarginTop:    m.Top,
			MarginBottom: m.Bottom,
			MarginLeft:   m.Left,
			MarginRight:  m.Right,
		},
		Logging: LoggingConfig{Level: "info"},
		Script:  ScriptConfig{Timeout: "2s"},
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, path, msg string, v any) {
		if !ok {
			errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
		}
	}

	check(c.Field.MaxNodes >= 1, "field.max_nodes", "must be at least 1", c.Field.MaxNodes)
	check(c.Field.MaxBufferSize >= 1, "field.max_buffer_size", "must be at least 1", c.Field.MaxBufferSize)
	check(c.Field.MaxUndoEntries >= 1, "field.max_undo_entries", "must be at least 1", c.Field.MaxUndoEntries)
	check(utf8.RuneCountInString(c.Field.DefaultVariable) == 1, "field.default_variable", "must be one character", c.Field.DefaultVariable)

	check(c.View.Width >= 1, "view.width", "must be at least 1", c.View.Width)
	check(c.View.Height >= 1, "view.height", "must be at least 1", c.View.Height)
	for path, v := range map[string]int{
		"view.margin_top":    c.View.MarginTop,
		"view.margin_bottom": c.View.MarginBottom,
		"view.margin_left":   c.View.MarginLeft,
		"view.margin_right":  c.View.MarginRight,
	} {
		check(v >= 0, path, "must not be negative", v)
	}

	if _, err := c.Theme.Build(); err != nil {
		errs = append(errs, &ValidationError{Path: "theme", Message: err.Error(), Value: c.Theme})
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "must be debug, info, warn or error", Value: c.Logging.Level})
	}
	if d, err := time.ParseDuration(c.Script.Timeout); err != nil || d <= 0 {
		errs = append(errs, &ValidationError{Path: "script.timeout", Message: "must be a positive duration", Value: c.Script.Timeout})
	}
	return errors.Join(errs...)
}

// Margins returns the scroll margins.
func (v ViewConfig) Margins() viewport.MarginConfig {
	return viewport.MarginConfig{
		Top:    v.MarginTop,
		Bottom: v.MarginBottom,
		Left:   v.MarginLeft,
		Right:  v.MarginRight,
	}
}

// Build returns the renderer theme.
func (t ThemeConfig) Build() (renderer.Theme, error) {
	return renderer.NewTheme(renderer.ThemeColors{
		Foreground: t.Foreground,
		Background: t.Background,
		Structure:  t.Structure,
		Selection:  t.Selection,
	})
}

// TimeoutDuration returns the script timeout, or 2s if it does not parse.
func (s ScriptConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Second
	}
	return d
}

// EngineOptions returns the engine options for the field settings.
func (c *Config) EngineOptions() []engine.Option {
	opts := []engine.Option{
		engine.WithMaxNodes(c.Field.MaxNodes),
		engine.WithMaxBufferSize(c.Field.MaxBufferSize),
		engine.WithMaxUndoEntries(c.Field.MaxUndoEntries),
		engine.WithWindowSize(c.View.Width, c.View.Height),
		engine.WithScrollMargins(c.View.Margins()),
	}
	if r, size := utf8.DecodeRuneInString(c.Field.DefaultVariable); size > 0 && r != utf8.RuneError {
		opts = append(opts, engine.WithDefaultVariable(r))
	}
	return opts
}

// String returns a one-line summary for logs.
func (c *Config) String() string {
	return fmt.Sprintf("max_nodes=%d max_buffer=%d view=%dx%d log=%s",
		c.Field.MaxNodes, c.Field.MaxBufferSize, c.View.Width, c.View.Height, c.Logging.Level)
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() logging.LogLevel {
	return logging.ParseLogLevel(c.Logging.Level)
}
