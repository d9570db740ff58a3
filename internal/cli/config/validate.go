package config

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/lint"
)

// Validate checks the host-level configuration. It covers only what
// the engine cannot catch itself: the engine degrades bad isolation
// patterns, custom rules, and title patterns into reported issues,
// while the mistakes below would otherwise fail silently.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("unknown output mode %q (want auto, text, markdown or json)", c.OutputFormat)
	}

	if _, ok := ParseLogLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q (want debug, info, warn or error)", c.Log.Level)
	}

	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %s", c.Debounce)
	}
	if c.Watch != nil && c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}

	if err := c.validateStructures(); err != nil {
		return err
	}
	if err := c.validateIsolation(); err != nil {
		return err
	}
	return c.validateLint()
}

func (c *Config) validateStructures() error {
	if c.Structures == nil || len(c.Structures.Definitions) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(c.Structures.Definitions))
	for i, e := range c.Structures.Definitions {
		if e.Name == "" {
			return fmt.Errorf("structures.definitions[%d]: name is required", i)
		}
		// Structure lookup is case-insensitive, so names must be
		// unique under folding.
		key := strings.ToLower(e.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("structures.definitions: duplicate structure name %q", e.Name)
		}
		seen[key] = struct{}{}
	}

	if def := c.Structures.Default; def != "" {
		if _, ok := seen[strings.ToLower(def)]; !ok {
			return fmt.Errorf("structures.default %q does not name a defined structure", def)
		}
	}
	return nil
}

func (c *Config) validateIsolation() error {
	if c.Isolation == nil {
		return nil
	}
	for _, name := range c.Isolation.Ignored {
		if !classify.Category(name).Valid() {
			return fmt.Errorf("isolation.ignored: unknown category %q (known: %s)",
				name, strings.Join(categoryNames(), ", "))
		}
	}
	return nil
}

func (c *Config) validateLint() error {
	if c.Lint == nil {
		return nil
	}
	for id, name := range c.Lint.Severity {
		if _, ok := lint.ParseSeverity(name); !ok {
			return fmt.Errorf("lint.severity.%s: unknown severity %q (want error, warning or info)", id, name)
		}
	}
	return nil
}

// Warnings reports configuration that is valid but probably not what
// the user wants. The CLI prints them once at startup.
func (c *Config) Warnings() []string {
	var warnings []string

	if c.Isolation != nil {
		for _, name := range c.Isolation.Ignored {
			cat := classify.Category(name)
			if cat == classify.CategoryCallout || cat == classify.CategoryQuote {
				warnings = append(warnings, fmt.Sprintf(
					"isolation.ignored includes %q; block markers become invisible to structure checks", name))
			}
		}
	}

	if c.Lint != nil {
		customIDs := make(map[string]struct{}, len(c.Lint.Custom))
		for _, cr := range c.Lint.Custom {
			customIDs[cr.ID] = struct{}{}
		}
		for _, id := range c.Lint.Disabled {
			if _, registered := lint.GetByID(id); registered {
				continue
			}
			if _, custom := customIDs[id]; custom {
				continue
			}
			warnings = append(warnings, fmt.Sprintf("lint.disabled references unknown rule %q", id))
		}
	}

	return warnings
}

func categoryNames() []string {
	cats := classify.Categories()
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, string(cat))
	}
	return names
}
