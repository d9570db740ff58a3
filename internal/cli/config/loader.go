package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// loggerKey stores the CLI logger in command contexts.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree the
// config file search goes.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// configExistsIn checks whether a journalint config file exists in
// the directory, returning its path.
func configExistsIn(dir string) string {
	for _, name := range []string{"journalint.yaml", "journalint.yml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findConfigUpward searches startDir and its parents for a config
// file. Returns empty when none is found within the search limit.
func findConfigUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if found := configExistsIn(dir); found != "" {
			return found
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// FindConfigFile searches dir and its parents for a journalint config
// file, returning its path or empty when none is found within the
// search limit. Hosts that know their root (the language server's
// workspace folder) use this instead of the CWD-based discovery in
// Load.
func FindConfigFile(dir string) string {
	return findConfigUpward(dir)
}

// ResetConfig resets the loader's package state. Used by tests.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// Load merges configuration for one invocation.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// With no explicit path the config file is discovered by walking up
// from the working directory, which makes journalint runnable from
// anywhere inside a vault.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k = koanf.New(".")

	// 1. Defaults.
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose":          false,
		"output":           DefaultOutput,
		"log.level":        DefaultLogLevel,
		"debounce":         DefaultDebounce.String(),
		"watch.debounce":   DefaultWatchDebounce.String(),
		"watch.extensions": DefaultWatchExtensions,
		"history.enabled":  true,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file: explicit path, or discovered upward from CWD.
	if cfgFile == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfgFile = findConfigUpward(cwd)
		}
	}
	configFileUsed = ""
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
		if err := checkFileKeys(cfgFile); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
		configFileUsed = cfgFile
	}

	// 3. Environment variables. JOURNALINT_LOG_LEVEL -> log.level.
	if err := k.Load(env.Provider("JOURNALINT_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "JOURNALINT_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags set on the command line override everything.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			// The --log-level flag maps to the nested log.level key.
			if key == "log_level" {
				return "log.level", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into the Config struct.
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Resolve the project root and relative paths against it.
	if configFileUsed != "" {
		if abs, err := filepath.Abs(configFileUsed); err == nil {
			cfg.ProjectRoot = filepath.Dir(abs)
		}
	}
	if cfg.ProjectRoot == "" {
		cwd, _ := os.Getwd()
		if cwd == "" {
			cwd = "."
		}
		cfg.ProjectRoot = cwd
	}
	if cfg.History != nil && cfg.History.Path != "" && !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(cfg.ProjectRoot, cfg.History.Path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	currentConfig = &cfg
	return &cfg, nil
}

// checkFileKeys decodes the config file on its own with strict key
// checking, so a typo like "disbled" fails at startup instead of
// silently doing nothing. The merged load that follows stays lenient
// because env vars share the key space.
func checkFileKeys(path string) error {
	probe := koanf.New(".")
	if err := probe.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	var strict Config
	err := probe.UnmarshalWithConf("", &strict, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &strict,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return nil
}

// GetConfigFileUsed returns the path of the config file in effect,
// if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the configuration from the last Load.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key for the CLI logger. The root
// command stores the logger under it; command packages retrieve it
// with GetLogger without importing the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from a command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// ParseLogLevel maps a level name to its slog level.
func ParseLogLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// BuildLogger constructs the CLI logger: a text handler at the
// configured level. Verbose forces debug.
func (c *Config) BuildLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLogLevel(c.Log.Level)
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
