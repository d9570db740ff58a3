// Package config loads journalint's host configuration.
//
// The engine packages take value configs (parser.StructureConfig,
// classify.Config, *lint.Config). This package owns the YAML shape of
// journalint.yaml, the merge order defaults < file < env < flags, and
// the conversion of the merged result into those engine configs.
// Host configuration problems are returned as errors at startup;
// anything the engine can degrade gracefully (invalid isolation
// patterns, bad custom rules, bad title patterns) is left for the
// engine to report as issues.
package config

import (
	"time"

	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	Log          LogConfig     `koanf:"log"`
	Debounce     time.Duration `koanf:"debounce"`

	Structures *StructuresConfig `koanf:"structures"`
	Isolation  *IsolationConfig  `koanf:"isolation"`
	Lint       *LintConfig       `koanf:"lint"`
	Watch      *WatchConfig      `koanf:"watch"`
	History    *HistoryConfig    `koanf:"history"`

	// ProjectRoot is the directory the config file was found in, or
	// the working directory when none exists. Relative paths in the
	// config resolve against it.
	ProjectRoot string `koanf:"-"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

// StructuresConfig declares the named structures documents validate
// against.
type StructuresConfig struct {
	Default     string           `koanf:"default"`
	Definitions []StructureEntry `koanf:"definitions"`
}

// StructureEntry is the YAML shape of one structure definition.
type StructureEntry struct {
	Name             string       `koanf:"name"`
	EntryCallout     string       `koanf:"entry_callout"`
	ChildCallouts    []string     `koanf:"child_callouts"`
	MetricsCallout   string       `koanf:"metrics_callout"`
	RequiredChildren []string     `koanf:"required_children"`
	ChildOrder       []string     `koanf:"child_order"`
	DateFormats      []string     `koanf:"date_formats"`
	TitlePattern     string       `koanf:"title_pattern"`
	Metrics          MetricsEntry `koanf:"metrics"`
}

// MetricsEntry is the YAML shape of a structure's metrics section.
type MetricsEntry struct {
	Required        []string `koanf:"required"`
	Optional        []string `koanf:"optional"`
	AllowAdditional bool     `koanf:"allow_additional"`
	EnforceOrder    bool     `koanf:"enforce_order"`
	CustomOrder     []string `koanf:"custom_order"`
	CheckDuplicates bool     `koanf:"check_duplicates"`
}

// IsolationConfig is the YAML shape of content isolation settings.
// When present it replaces the built-in ignore set entirely, so a
// config that wants the defaults plus a custom pattern lists the
// defaults explicitly.
type IsolationConfig struct {
	Ignored []string             `koanf:"ignored"`
	Custom  []CustomPatternEntry `koanf:"custom"`
}

// CustomPatternEntry is a named user-supplied isolation pattern.
type CustomPatternEntry struct {
	Name    string `koanf:"name"`
	Pattern string `koanf:"pattern"`
}

// LintConfig is the YAML shape of rule configuration.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
	Custom   []CustomRuleEntry         `koanf:"custom"`
}

// CustomRuleEntry is a user-defined regex rule. Replacement is a
// pointer so an explicitly empty replacement (delete the match) is
// distinguishable from no replacement at all.
type CustomRuleEntry struct {
	ID          string  `koanf:"id"`
	Pattern     string  `koanf:"pattern"`
	Message     string  `koanf:"message"`
	Severity    string  `koanf:"severity"`
	Priority    int     `koanf:"priority"`
	Replacement *string `koanf:"replacement"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	Debounce   time.Duration `koanf:"debounce"`
	Extensions []string      `koanf:"extensions"`
}

// HistoryConfig controls run-history recording.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// Default configuration values.
const (
	DefaultOutput        = "auto" // TTY resolves to text, piped to markdown
	DefaultLogLevel      = "info"
	DefaultDebounce      = 250 * time.Millisecond
	DefaultWatchDebounce = 300 * time.Millisecond
)

// DefaultWatchExtensions are the file extensions watch mode re-checks.
var DefaultWatchExtensions = []string{".md"}

// StructureConfig converts the structures section into the parser's
// value config. With no definitions the built-in dream-journal
// default applies.
func (c *Config) StructureConfig() parser.StructureConfig {
	if c.Structures == nil || len(c.Structures.Definitions) == 0 {
		return parser.DefaultStructureConfig()
	}
	out := parser.StructureConfig{Default: c.Structures.Default}
	for _, e := range c.Structures.Definitions {
		out.Structures = append(out.Structures, parser.StructureDef{
			Name:             e.Name,
			EntryCallout:     e.EntryCallout,
			ChildCallouts:    append([]string(nil), e.ChildCallouts...),
			MetricsCallout:   e.MetricsCallout,
			RequiredChildren: append([]string(nil), e.RequiredChildren...),
			ChildOrder:       append([]string(nil), e.ChildOrder...),
			DateFormats:      append([]string(nil), e.DateFormats...),
			TitlePattern:     e.TitlePattern,
			Metrics: parser.MetricsSpec{
				Required:        append([]string(nil), e.Metrics.Required...),
				Optional:        append([]string(nil), e.Metrics.Optional...),
				AllowAdditional: e.Metrics.AllowAdditional,
				EnforceOrder:    e.Metrics.EnforceOrder,
				CustomOrder:     append([]string(nil), e.Metrics.CustomOrder...),
				CheckDuplicates: e.Metrics.CheckDuplicates,
			},
		})
	}
	return out
}

// IsolationConfig converts the isolation section into the
// classifier's value config. A missing section means the standard
// ignore set.
func (c *Config) IsolationConfig() classify.Config {
	if c.Isolation == nil {
		return classify.DefaultConfig()
	}
	var cfg classify.Config
	for _, name := range c.Isolation.Ignored {
		cfg.Ignored = append(cfg.Ignored, classify.Category(name))
	}
	for _, p := range c.Isolation.Custom {
		cfg.Custom = append(cfg.Custom, classify.CustomPattern{Name: p.Name, Pattern: p.Pattern})
	}
	return cfg
}

// LintConfig converts the lint section into the analyzer's config.
// Severity values are assumed validated; an unparseable one is
// skipped here rather than guessed at.
func (c *Config) LintConfig() *lint.Config {
	cfg := lint.NewConfig()
	if c.Lint == nil {
		return cfg
	}
	for _, id := range c.Lint.Disabled {
		cfg.Disable(id)
	}
	for id, name := range c.Lint.Severity {
		if sev, ok := lint.ParseSeverity(name); ok {
			cfg.SetSeverity(id, sev)
		}
	}
	for id, opts := range c.Lint.Rules {
		for key, val := range opts {
			cfg.SetOption(id, key, val)
		}
	}
	for _, cr := range c.Lint.Custom {
		rule := lint.CustomRule{
			ID:       cr.ID,
			Pattern:  cr.Pattern,
			Message:  cr.Message,
			Severity: cr.Severity,
			Priority: cr.Priority,
		}
		if cr.Replacement != nil {
			rule.Replacement = *cr.Replacement
			rule.HasFix = true
		}
		cfg.AddCustomRule(rule)
	}
	return cfg
}

// DebouncePeriod returns the configured debounce, or the default when
// unset.
func (c *Config) DebouncePeriod() time.Duration {
	if c.Debounce > 0 {
		return c.Debounce
	}
	return DefaultDebounce
}

// WatchDebounce returns the watch debounce, or the default when
// unset.
func (c *Config) WatchDebounce() time.Duration {
	if c.Watch != nil && c.Watch.Debounce > 0 {
		return c.Watch.Debounce
	}
	return DefaultWatchDebounce
}

// WatchExtensions returns the extensions watch mode re-checks.
func (c *Config) WatchExtensions() []string {
	if c.Watch != nil && len(c.Watch.Extensions) > 0 {
		return c.Watch.Extensions
	}
	return DefaultWatchExtensions
}

// HistoryEnabled reports whether run recording is on. Recording
// defaults to enabled; only an explicit history.enabled: false turns
// it off.
func (c *Config) HistoryEnabled() bool {
	if c.History == nil {
		return true
	}
	return c.History.Enabled
}
