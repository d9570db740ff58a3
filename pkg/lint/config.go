package lint

// =============================================================================
// Analyzer Configuration
// =============================================================================

// Config controls analyzer behavior.
type Config struct {
	// DisabledRules maps rule IDs to disabled state. A disabled rule
	// produces no diagnostics.
	DisabledRules map[string]bool

	// SeverityOverrides remaps rule severities, e.g. promote FM02
	// from info to error in a strict setup.
	SeverityOverrides map[string]Severity

	// RuleOptions carries per-rule option maps keyed by rule ID.
	// Values come from configuration files, so numbers may arrive as
	// float64 and lists as []any; rules read them through the
	// GetOption helpers.
	RuleOptions map[string]map[string]any

	// CustomRules are user-defined regex rules compiled at analyzer
	// construction. An invalid definition degrades to a single
	// engine-attributed issue instead of failing the run.
	CustomRules []CustomRule
}

// CustomRule defines a user-supplied regex rule.
type CustomRule struct {
	ID       string
	Pattern  string
	Message  string
	Severity string // "error", "warning" or "info"; empty means warning
	Priority int

	// Replacement, when non-empty, turns each match into a fixable
	// issue. $1-style group references expand per match.
	Replacement string
	HasFix      bool // distinguishes an empty replacement from no replacement
}

// NewConfig returns an empty configuration with all rules enabled at
// their default severities.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// Clone returns a deep copy of the configuration. Mutating the copy
// leaves the original untouched, so a shared base config can be
// specialized per document.
func (c *Config) Clone() *Config {
	if c == nil {
		return NewConfig()
	}
	out := NewConfig()
	for id, off := range c.DisabledRules {
		out.DisabledRules[id] = off
	}
	for id, sev := range c.SeverityOverrides {
		out.SeverityOverrides[id] = sev
	}
	for id, opts := range c.RuleOptions {
		m := make(map[string]any, len(opts))
		for k, v := range opts {
			m[k] = v
		}
		out.RuleOptions[id] = m
	}
	out.CustomRules = append(out.CustomRules, c.CustomRules...)
	return out
}

// Disable disables a rule by ID. Chainable.
func (c *Config) Disable(ruleID string) *Config {
	if c.DisabledRules == nil {
		c.DisabledRules = make(map[string]bool)
	}
	c.DisabledRules[ruleID] = true
	return c
}

// Enable re-enables a previously disabled rule. Chainable.
func (c *Config) Enable(ruleID string) *Config {
	if c.DisabledRules != nil {
		delete(c.DisabledRules, ruleID)
	}
	return c
}

// SetSeverity overrides a rule's severity. Chainable.
func (c *Config) SetSeverity(ruleID string, severity Severity) *Config {
	if c.SeverityOverrides == nil {
		c.SeverityOverrides = make(map[string]Severity)
	}
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetOption sets a single rule option. Chainable.
func (c *Config) SetOption(ruleID, key string, value any) *Config {
	if c.RuleOptions == nil {
		c.RuleOptions = make(map[string]map[string]any)
	}
	if c.RuleOptions[ruleID] == nil {
		c.RuleOptions[ruleID] = make(map[string]any)
	}
	c.RuleOptions[ruleID][key] = value
	return c
}

// AddCustomRule appends a user-defined rule. Chainable.
func (c *Config) AddCustomRule(r CustomRule) *Config {
	c.CustomRules = append(c.CustomRules, r)
	return c
}

// IsDisabled reports whether a rule is disabled.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil || c.DisabledRules == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// EffectiveSeverity resolves a rule's severity after overrides.
func (c *Config) EffectiveSeverity(ruleID string, def Severity) Severity {
	if c == nil || c.SeverityOverrides == nil {
		return def
	}
	if s, ok := c.SeverityOverrides[ruleID]; ok {
		return s
	}
	return def
}

// OptionsFor returns the option map for a rule, or nil.
func (c *Config) OptionsFor(ruleID string) map[string]any {
	if c == nil || c.RuleOptions == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}
