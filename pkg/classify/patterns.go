package classify

import "regexp"

// Inline matchers, one per category. Multi-line constructs (fences,
// frontmatter, math and comment blocks, tables) are handled by the
// line scanner in classifier.go so unterminated blocks can close at
// document end; everything here stays within a single line except the
// html comment form.
//
// Patterns with a capture group classify only the group; the rest
// classify the whole match.

type inlinePattern struct {
	category Category
	re       *regexp.Regexp
	group    int // submatch index to classify, 0 for whole match
}

var inlinePatterns = []inlinePattern{
	// Inline html tags and comments.
	{CategoryHTML, regexp.MustCompile(`(?s)<!--.*?-->`), 0},
	{CategoryHTML, regexp.MustCompile(`</?[A-Za-z][^<>\n]*>`), 0},

	// Inline code and math.
	{CategoryCode, regexp.MustCompile("`[^`\n]+`"), 0},
	{CategoryMath, regexp.MustCompile(`\$[^$\n]+\$`), 0},

	// %%inline comments%% (block form handled by the scanner).
	{CategoryComment, regexp.MustCompile(`%%[^%\n]+%%`), 0},

	// Callout type marker at the head of a quoted line.
	{CategoryCallout, regexp.MustCompile(`(?m)^(?:[ \t]*>)+[ \t]*(\[![A-Za-z][A-Za-z0-9/_-]*\][+-]?)`), 1},

	// Leading blockquote marker run.
	{CategoryQuote, regexp.MustCompile(`(?m)^((?:[ \t]*>)+[ \t]?)`), 1},

	// Task checkbox marker, optionally inside a quote.
	{CategoryTask, regexp.MustCompile(`(?m)^(?:[ \t]*>)*[ \t]*([-*+] \[[ xX/-]\])`), 1},

	// Embeds before images before links so ![[ and ![ win over [.
	{CategoryEmbed, regexp.MustCompile(`!\[\[[^\[\]\n]+\]\]`), 0},
	{CategoryImage, regexp.MustCompile(`!\[[^\]\n]*\]\([^)\n]*\)`), 0},
	{CategoryLink, regexp.MustCompile(`\[\[[^\[\]\n]+\]\]`), 0},
	{CategoryLink, regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]*\)`), 0},

	// Footnote references and definition lines.
	{CategoryFootnote, regexp.MustCompile(`(?m)^\[\^[A-Za-z0-9_-]+\]:[^\n]*$`), 0},
	{CategoryFootnote, regexp.MustCompile(`\[\^[A-Za-z0-9_-]+\]`), 0},

	{CategoryHighlight, regexp.MustCompile(`==[^=\n]+==`), 0},

	// Tags must not swallow markdown headings: require a word char
	// right after the hash.
	{CategoryTag, regexp.MustCompile(`(?m)(?:^|[\s(>])(#[A-Za-z0-9][A-Za-z0-9/_-]*)`), 1},

	{CategoryMention, regexp.MustCompile(`(?m)(?:^|[\s(>])(@[A-Za-z0-9][A-Za-z0-9._-]*)`), 1},

	// Horizontal rules on their own line.
	{CategoryRule, regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`), 0},

	// Definition-list lines.
	{CategoryDefinition, regexp.MustCompile(`(?m)^(?:[ \t]*>)*[ \t]*: [^\n]*$`), 0},
}

// diagramInfoWords are fence info strings classified as diagrams
// rather than plain code.
var diagramInfoWords = map[string]bool{
	"mermaid":  true,
	"plantuml": true,
	"dot":      true,
	"graphviz": true,
	"d2":       true,
}
