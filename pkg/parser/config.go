package parser

import "strings"

// MetricsSpec describes the metric entries expected inside a metrics
// block: which names are required or allowed, and whether ordering
// and duplicates are checked.
type MetricsSpec struct {
	Required        []string
	Optional        []string
	AllowAdditional bool
	EnforceOrder    bool
	// CustomOrder overrides the expected order; empty means Required
	// followed by Optional.
	CustomOrder     []string
	CheckDuplicates bool
}

// ExpectedOrder returns the configured metric order: CustomOrder when
// set, otherwise Required followed by Optional.
func (m MetricsSpec) ExpectedOrder() []string {
	if len(m.CustomOrder) > 0 {
		return m.CustomOrder
	}
	out := make([]string, 0, len(m.Required)+len(m.Optional))
	out = append(out, m.Required...)
	out = append(out, m.Optional...)
	return out
}

// Allows reports whether a metric name is in the required or optional
// set (or CustomOrder), case-insensitively.
func (m MetricsSpec) Allows(name string) bool {
	for _, known := range m.Required {
		if strings.EqualFold(known, name) {
			return true
		}
	}
	for _, known := range m.Optional {
		if strings.EqualFold(known, name) {
			return true
		}
	}
	for _, known := range m.CustomOrder {
		if strings.EqualFold(known, name) {
			return true
		}
	}
	return false
}

// StructureDef is one named journal structure: the callout types that
// open entries, nested child blocks, and the metrics block, plus the
// format expectations for entry headers.
type StructureDef struct {
	Name string

	// Callout types, matched case-insensitively against markers.
	EntryCallout   string
	ChildCallouts  []string
	MetricsCallout string

	// RequiredChildren lists callout types every entry must contain.
	RequiredChildren []string
	// ChildOrder is the expected order of child callout types inside
	// an entry; empty disables order checking.
	ChildOrder []string

	// DateFormats are Go reference layouts accepted in entry headers
	// (e.g. "2006-01-02"). Empty disables the date check.
	DateFormats []string
	// TitlePattern is a regular expression the header title must
	// match; empty disables the title check.
	TitlePattern string

	Metrics MetricsSpec
}

// RecognizesChild reports whether callout is one of the structure's
// child callout types.
func (d StructureDef) RecognizesChild(callout string) bool {
	for _, c := range d.ChildCallouts {
		if strings.EqualFold(c, callout) {
			return true
		}
	}
	return false
}

// StructureConfig is the full set of named structures plus the name
// of the default one. Passed by value at session creation and treated
// as read-only afterwards.
type StructureConfig struct {
	Default    string
	Structures []StructureDef
}

// Lookup returns the structure definition with the given name,
// case-insensitively.
func (c StructureConfig) Lookup(name string) (StructureDef, bool) {
	for _, s := range c.Structures {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return StructureDef{}, false
}

// Active returns the structure selected by name, falling back to the
// configured default and then to the first structure. The second
// return is false when name was given but not found.
func (c StructureConfig) Active(name string) (StructureDef, bool) {
	if name != "" {
		def, ok := c.Lookup(name)
		return def, ok
	}
	if c.Default != "" {
		if def, ok := c.Lookup(c.Default); ok {
			return def, true
		}
	}
	if len(c.Structures) > 0 {
		return c.Structures[0], true
	}
	return StructureDef{}, false
}

// kindOf classifies a callout type against the union of all
// configured structures. Entry beats metrics beats child when names
// collide across structures.
func (c StructureConfig) kindOf(callout string) BlockKind {
	for _, s := range c.Structures {
		if strings.EqualFold(s.EntryCallout, callout) && s.EntryCallout != "" {
			return KindEntry
		}
	}
	for _, s := range c.Structures {
		if strings.EqualFold(s.MetricsCallout, callout) && s.MetricsCallout != "" {
			return KindMetrics
		}
	}
	for _, s := range c.Structures {
		if s.RecognizesChild(callout) {
			return KindChild
		}
	}
	return KindUnknown
}

// DefaultStructureConfig is the out-of-the-box dream journal layout:
// a journal-entry callout holding an optional dream-diary narrative
// and a dream-metrics block.
func DefaultStructureConfig() StructureConfig {
	return StructureConfig{
		Default: "dream-journal",
		Structures: []StructureDef{
			{
				Name:             "dream-journal",
				EntryCallout:     "journal-entry",
				ChildCallouts:    []string{"dream-diary"},
				MetricsCallout:   "dream-metrics",
				RequiredChildren: []string{"dream-metrics"},
				DateFormats:      []string{"2006-01-02", "January 2, 2006"},
				Metrics: MetricsSpec{
					Required:        []string{"Sensory Detail", "Emotional Recall", "Lost Segments", "Descriptiveness", "Confidence Score"},
					AllowAdditional: true,
				},
			},
		},
	}
}
