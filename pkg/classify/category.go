package classify

// Category identifies the syntax family a span of document text
// belongs to. The set is closed: every span carries exactly one of
// these values, and CategoryPlain marks text no matcher claimed.
type Category string

const (
	CategoryImage       Category = "image"
	CategoryLink        Category = "link"
	CategoryTable       Category = "table"
	CategoryHTML        Category = "html"
	CategoryCode        Category = "code"
	CategoryCallout     Category = "callout"
	CategoryMath        Category = "math"
	CategoryFootnote    Category = "footnote"
	CategoryTag         Category = "tag"
	CategoryMention     Category = "mention"
	CategoryHighlight   Category = "highlight"
	CategoryComment     Category = "comment"
	CategoryEmbed       Category = "embed"
	CategoryFrontmatter Category = "frontmatter"
	CategoryTask        Category = "task"
	CategoryQuote       Category = "quote"
	CategoryRule        Category = "rule"
	CategoryDefinition  Category = "definition"
	CategoryDiagram     Category = "diagram"
	CategoryCustom      Category = "custom"
	CategoryPlain       Category = "plain"
)

// matchOrder lists categories in match priority. Earlier categories
// claim overlapping candidates first; code, math, and html come early
// because their bodies routinely contain characters that look like
// other syntaxes.
var matchOrder = []Category{
	CategoryFrontmatter,
	CategoryCode,
	CategoryDiagram,
	CategoryMath,
	CategoryHTML,
	CategoryComment,
	CategoryTable,
	CategoryCallout,
	CategoryQuote,
	CategoryTask,
	CategoryEmbed,
	CategoryImage,
	CategoryLink,
	CategoryFootnote,
	CategoryHighlight,
	CategoryTag,
	CategoryMention,
	CategoryRule,
	CategoryDefinition,
	CategoryCustom,
}

// Categories returns all classifiable categories, including plain.
func Categories() []Category {
	out := make([]Category, 0, len(matchOrder)+1)
	out = append(out, matchOrder...)
	out = append(out, CategoryPlain)
	return out
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	if c == CategoryPlain {
		return true
	}
	for _, known := range matchOrder {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
