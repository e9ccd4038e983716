package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/jex/pkg/settings"
)

// fileConfig is the optional YAML config file schema. Every field is a
// pointer so absent keys are distinguishable from zero values.
type fileConfig struct {
	Expression      *string `yaml:"expression"`
	Indent          *int    `yaml:"indent"`
	MaxDepth        *int    `yaml:"max_depth"`
	MaxEntries      *int    `yaml:"max_entries"`
	DebounceMs      *int    `yaml:"debounce_ms"`
	SuggestionLimit *int    `yaml:"suggestion_limit"`
	NoHint          *bool   `yaml:"no_hint"`
	LogLevel        *int8   `yaml:"log_level"`
	LogFile         *string `yaml:"log_file"`
}

// resolveConfigPath returns the explicit path if set, otherwise the XDG path
// ($XDG_CONFIG_HOME/jex/config.yaml) or ~/.config/jex/config.yaml if present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	xdg := os.Getenv("XDG_CONFIG_HOME")
	candidate := ""
	if xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// applyConfig merges file values into the run parameters. A flag the user set
// explicitly always wins over the file; changed reports whether a flag was
// set on the command line.
func applyConfig(params *settings.Run, cfg fileConfig, changed func(string) bool) {
	if cfg.Expression != nil && !changed("expression") {
		params.InitialFilter = *cfg.Expression
	}
	if cfg.Indent != nil && !changed("indent") {
		params.Indent = *cfg.Indent
	}
	if cfg.MaxDepth != nil && !changed("max-depth") {
		params.MaxDepth = *cfg.MaxDepth
	}
	if cfg.MaxEntries != nil && !changed("max-entries") {
		params.MaxEntries = *cfg.MaxEntries
	}
	if cfg.DebounceMs != nil && !changed("debounce-ms") {
		params.DebounceMs = *cfg.DebounceMs
	}
	if cfg.SuggestionLimit != nil && !changed("suggestion-limit") {
		params.SuggestionLimit = *cfg.SuggestionLimit
	}
	if cfg.NoHint != nil && !changed("no-hint") {
		params.NoHint = *cfg.NoHint
	}
	if cfg.LogLevel != nil && !changed("log-level") {
		params.MinLogLevel = *cfg.LogLevel
	}
	if cfg.LogFile != nil && !changed("log-file") {
		params.LogFile = *cfg.LogFile
	}
}
