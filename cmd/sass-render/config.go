package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/sassrender"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".sass-render.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	// 3. CLI flags (highest precedence; unchanged flags only fill missing keys)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("%w: loading command flags: %v", errUsage, err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (SASS_RENDER_* prefix)
	if err := k.Load(env.Provider("SASS_RENDER_", ".", func(s string) string {
		// SASS_RENDER_TEMPLATE -> template
		return strings.ToLower(strings.TrimPrefix(s, "SASS_RENDER_"))
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// renderParams is everything one CLI invocation needs, resolved from koanf.
type renderParams struct {
	Options     sassrender.Options
	Patterns    []string // positional sources: files or globs
	Directories []string // --directory values, must exist
	Output      string
	Workers     int
	Watch       bool
}

// buildRenderParams resolves positional sources and configured directories.
func buildRenderParams(args []string) renderParams {
	return renderParams{
		Options: sassrender.Options{
			Delimiter:    getStringWithFallback("delimiter", sassrender.DefaultDelimiter),
			IncludePaths: getStrings("include"),
			Template:     getStringWithFallback("template", ""),
			Suffix:       getStringWithFallback("suffix", sassrender.DefaultSuffix),
		},
		Patterns:    args,
		Directories: getStrings("directory"),
		Output:      getStringWithFallback("output", ""),
		Workers:     getIntWithFallback("workers", 0),
		Watch:       getBoolWithFallback("watch", false),
	}
}

// getStrings reads a list key. A plain string (from env vars) is split on commas.
// Returns nil when the key is unset so the library default applies.
func getStrings(key string) []string {
	if v, ok := k.Get(key).(string); ok {
		if paths := parsePaths(v); len(paths) > 0 {
			return paths
		}
		return nil
	}
	if v := k.Strings(key); len(v) > 0 {
		return v
	}
	return nil
}

// parsePaths splits comma-separated paths into a slice
func parsePaths(paths string) []string {
	parts := strings.Split(paths, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getStringWithFallback returns the configured value or the default.
func getStringWithFallback(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback returns the configured value or the default.
func getBoolWithFallback(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}

// getIntWithFallback returns the configured value or the default.
func getIntWithFallback(key string, defaultVal int) int {
	if k.Exists(key) {
		return k.Int(key)
	}
	return defaultVal
}
