package lint

// =============================================================================
// Rule Kinds
// =============================================================================

// RuleKind partitions rules by what they inspect. The analyzer
// dispatches on the kind with a closed switch; adding a kind without
// handling it is a programming error caught by tests.
type RuleKind int

const (
	// KindStructure rules inspect the parsed block tree: nesting,
	// required children, ordering, unknown callouts.
	KindStructure RuleKind = iota

	// KindFormat rules inspect header surface details: dates, titles,
	// callout casing.
	KindFormat

	// KindContent rules inspect block contents, primarily metric
	// entries in metrics blocks.
	KindContent

	// KindCustom rules are user-defined regex rules compiled at
	// configuration time.
	KindCustom
)

var kindNames = map[RuleKind]string{
	KindStructure: "structure",
	KindFormat:    "format",
	KindContent:   "content",
	KindCustom:    "custom",
}

// String returns the kind's lowercase name.
func (k RuleKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// =============================================================================
// Rule Definition
// =============================================================================

// CheckFunc is the signature for rule check functions.
// opts carries rule-specific options resolved from configuration;
// rules read them through the GetOption helpers.
type CheckFunc func(doc *Document, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition. Most rules are simple
// enough to express declaratively with a check function.
type RuleDef struct {
	ID          string
	Name        string
	Kind        RuleKind
	Group       string // rule group, e.g. "structure", "format", "content"
	Description string
	Severity    Severity // default severity, overridable per config
	Priority    int      // fix priority; higher wins on conflicting fixes
	ConfigKeys  []string // option keys this rule reads, for docs/validation

	// StructureDependent rules read doc.Structure and are skipped when
	// no structure definition is active.
	StructureDependent bool

	Check CheckFunc

	// Documentation fields used by `journalint rules`.
	Rationale   string
	BadExample  string
	GoodExample string
	FixHint     string
}
