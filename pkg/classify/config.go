package classify

// CustomPattern is a user-supplied isolation pattern. Matches are
// tagged CategoryCustom and treated as ignored.
type CustomPattern struct {
	Name    string
	Pattern string
}

// Config controls which categories are treated as opaque downstream.
// Matchers always run and spans are always tagged; Ignored only
// decides whether a tagged span hides its text from structural and
// content analysis. A category that is not ignored behaves as plain.
//
// The zero value ignores nothing. DefaultConfig returns the standard
// isolation set.
type Config struct {
	Ignored []Category
	Custom  []CustomPattern
}

// DefaultConfig ignores decorative and opaque syntaxes while keeping
// the structural ones (callout, quote, task) analyzable. Ignoring
// callout or quote would hide block markers from the structure
// parser, so they are never in the default set.
func DefaultConfig() Config {
	return Config{
		Ignored: []Category{
			CategoryImage,
			CategoryLink,
			CategoryTable,
			CategoryHTML,
			CategoryCode,
			CategoryMath,
			CategoryFootnote,
			CategoryTag,
			CategoryMention,
			CategoryHighlight,
			CategoryComment,
			CategoryEmbed,
			CategoryFrontmatter,
			CategoryRule,
			CategoryDefinition,
			CategoryDiagram,
			CategoryCustom,
		},
	}
}

// Ignores reports whether cat is in the ignored set. CategoryPlain is
// never ignored.
func (c Config) Ignores(cat Category) bool {
	if cat == CategoryPlain {
		return false
	}
	for _, ig := range c.Ignored {
		if ig == cat {
			return true
		}
	}
	return false
}

// WithIgnored returns a copy of the config with cat added to the
// ignored set.
func (c Config) WithIgnored(cat Category) Config {
	if c.Ignores(cat) {
		return c
	}
	out := c
	out.Ignored = append(append([]Category(nil), c.Ignored...), cat)
	return out
}

// WithoutIgnored returns a copy of the config with cat removed from
// the ignored set.
func (c Config) WithoutIgnored(cat Category) Config {
	out := c
	out.Ignored = nil
	for _, ig := range c.Ignored {
		if ig != cat {
			out.Ignored = append(out.Ignored, ig)
		}
	}
	return out
}
