package config

import (
	"fmt"
	"strconv"
)

// EnvPrefix prefixes every environment variable the overlay reads.
const EnvPrefix = "MATHFIELD_"

// envSetting binds one environment variable to a setting.
type envSetting struct {
	path string
	str  func(*Config) *string
	num  func(*Config) *int
}

// envMapping returns the environment variable mappings, keyed by the name
// after the prefix.
func envMapping() map[string]envSetting {
	return map[string]envSetting{
		"MAX_NODES":        {path: "field.max_nodes", num: func(c *Config) *int { return &c.Field.MaxNodes }},
		"MAX_BUFFER_SIZE":  {path: "field.max_buffer_size", num: func(c *Config) *int { return &c.Field.MaxBufferSize }},
		"MAX_UNDO_ENTRIES": {path: "field.max_undo_entries", num: func(c *Config) *int { return &c.Field.MaxUndoEntries }},
		"DEFAULT_VARIABLE": {path: "field.default_variable", str: func(c *Config) *string { return &c.Field.DefaultVariable }},
		"VIEW_WIDTH":       {path: "view.width", num: func(c *Config) *int { return &c.View.Width }},
		"VIEW_HEIGHT":      {path: "view.height", num: func(c *Config) *int { return &c.View.Height }},
		"THEME_FOREGROUND": {path: "theme.foreground", str: func(c *Config) *string { return &c.Theme.Foreground }},
		"THEME_BACKGROUND": {path: "theme.background", str: func(c *Config) *string { return &c.Theme.Background }},
		"THEME_STRUCTURE":  {path: "theme.structure", str: func(c *Config) *string { return &c.Theme.Structure }},
		"THEME_SELECTION":  {path: "theme.selection", str: func(c *Config) *string { return &c.Theme.Selection }},
		"LOG_LEVEL":        {path: "logging.level", str: func(c *Config) *string { return &c.Logging.Level }},
		"LOG_FILE":         {path: "logging.file", str: func(c *Config) *string { return &c.Logging.File }},
		"SCRIPT_TIMEOUT":   {path: "script.timeout", str: func(c *Config) *string { return &c.Script.Timeout }},
		"SCRIPT_INIT":      {path: "script.init", str: func(c *Config) *string { return &c.Script.Init }},
	}
}

// EnvVars returns the names of all recognized environment variables.
func EnvVars() []string {
	m := envMapping()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, EnvPrefix+name)
	}
	return names
}

// ApplyEnv overlays MATHFIELD_* variables found by lookup onto cfg.
// Empty string values are treated as valid values, not as unset.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for name, s := range envMapping() {
		val, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if s.str != nil {
			*s.str(cfg) = val
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, &ValidationError{Path: s.path, Message: "not an integer", Value: val})
		}
		*s.num(cfg) = n
	}
	return nil
}
