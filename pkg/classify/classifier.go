// Package classify tags every byte of a journal document with the
// syntax category it belongs to: fenced code, math, tables, tags,
// wikilinks, callout markers, and the rest of the closed Category
// set, with plain text filling the gaps.
//
// Classification always covers the full document with non-overlapping
// spans. Which categories then count as opaque to structural and
// content analysis is decided by Config, not by the matchers; a
// category that is not ignored behaves exactly like plain text
// downstream.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/text"
)

// Span is a half-open byte range [Start, End) tagged with the syntax
// category that claimed it. Spans from one classification run never
// overlap and cover the whole document.
type Span struct {
	Start    int
	End      int
	Category Category
}

// PatternError records a custom isolation pattern that failed to
// compile. Classification proceeds without the pattern.
type PatternError struct {
	Name    string
	Pattern string
	Err     error
}

func (e PatternError) Error() string {
	return fmt.Sprintf("isolation pattern %q: %v", e.Name, e.Err)
}

// Classifier classifies document text into category spans. It is
// immutable after New and safe for concurrent use.
type Classifier struct {
	cfg         Config
	custom      []*regexp.Regexp
	patternErrs []PatternError
}

// New builds a classifier for the given isolation config. Invalid
// custom patterns are recorded (see PatternErrors) and skipped rather
// than failing construction: one bad pattern must not disable
// classification.
func New(cfg Config) *Classifier {
	c := &Classifier{cfg: cfg}
	for _, p := range cfg.Custom {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			c.patternErrs = append(c.patternErrs, PatternError{Name: p.Name, Pattern: p.Pattern, Err: err})
			continue
		}
		c.custom = append(c.custom, re)
	}
	return c
}

// PatternErrors returns the custom patterns that failed to compile.
func (c *Classifier) PatternErrors() []PatternError {
	return c.patternErrs
}

// Classify tags the whole document. The returned spans cover
// [0, len(input)) exactly, with no gaps or overlaps; an empty
// document yields an empty span sequence. Classification never
// fails — unmatched text is plain.
func (c *Classifier) Classify(input string) *Result {
	acc := &spanAccumulator{}

	// Multi-line blocks first: they are the highest-priority
	// categories and the scanner closes unterminated ones at
	// document end.
	for _, s := range scanBlocks(input) {
		acc.add(s)
	}

	for _, cat := range matchOrder {
		if cat == CategoryCustom {
			for _, re := range c.custom {
				addMatches(acc, input, re, 0, CategoryCustom)
			}
			continue
		}
		for _, p := range inlinePatterns {
			if p.category != cat {
				continue
			}
			addMatches(acc, input, p.re, p.group, cat)
		}
	}

	return &Result{spans: acc.coverGaps(len(input)), length: len(input), cfg: c.cfg}
}

func addMatches(acc *spanAccumulator, input string, re *regexp.Regexp, group int, cat Category) {
	if group == 0 {
		for _, m := range re.FindAllStringIndex(input, -1) {
			acc.add(Span{Start: m[0], End: m[1], Category: cat})
		}
		return
	}
	for _, m := range re.FindAllStringSubmatchIndex(input, -1) {
		start, end := m[2*group], m[2*group+1]
		if start < 0 {
			continue
		}
		acc.add(Span{Start: start, End: end, Category: cat})
	}
}

// spanAccumulator keeps accepted spans sorted by start offset and
// rejects candidates that overlap an already accepted span
// (first-match-wins across the priority order).
type spanAccumulator struct {
	spans []Span
}

func (a *spanAccumulator) add(s Span) {
	if s.End <= s.Start {
		return
	}

	// First accepted span that ends after the candidate starts.
	i := sort.Search(len(a.spans), func(i int) bool {
		return a.spans[i].End > s.Start
	})
	if i < len(a.spans) && a.spans[i].Start < s.End {
		return // overlaps a higher-priority span
	}

	a.spans = append(a.spans, Span{})
	copy(a.spans[i+1:], a.spans[i:])
	a.spans[i] = s
}

// coverGaps fills uncovered ranges with plain spans and returns the
// complete sequence.
func (a *spanAccumulator) coverGaps(length int) []Span {
	out := make([]Span, 0, len(a.spans)*2+1)
	prev := 0
	for _, s := range a.spans {
		if s.Start > prev {
			out = append(out, Span{Start: prev, End: s.Start, Category: CategoryPlain})
		}
		out = append(out, s)
		prev = s.End
	}
	if prev < length {
		out = append(out, Span{Start: prev, End: length, Category: CategoryPlain})
	}
	return out
}

// scanBlocks walks the document line by line and claims multi-line
// constructs: frontmatter, fenced code and diagrams, math blocks,
// comment blocks, and table runs. Unterminated blocks close at
// document end.
func scanBlocks(input string) []Span {
	if input == "" {
		return nil
	}

	var spans []Span

	// Line start offsets; the end of line i is starts[i+1]-1.
	starts := []int{0}
	for i := 0; i < len(input); i++ {
		if input[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	lineEnd := func(i int) int { // end offset excluding '\n'
		if i+1 < len(starts) {
			return starts[i+1] - 1
		}
		return len(input)
	}
	lineStop := func(i int) int { // end offset including '\n'
		if i+1 < len(starts) {
			return starts[i+1]
		}
		return len(input)
	}
	lineText := func(i int) string {
		return input[starts[i]:lineEnd(i)]
	}

	i := 0

	// Frontmatter can only open on the very first line.
	if strings.TrimRight(lineText(0), " \t\r") == "---" {
		after := len(starts) // line index past the block, EOF when unterminated
		for j := 1; j < len(starts); j++ {
			trimmed := strings.TrimRight(lineText(j), " \t\r")
			if trimmed == "---" || trimmed == "..." {
				after = j + 1
				break
			}
		}
		end := len(input)
		if after < len(starts) {
			end = starts[after]
		}
		spans = append(spans, Span{Start: 0, End: end, Category: CategoryFrontmatter})
		i = after
	}

	for i < len(starts) {
		content := text.StripQuotes(lineText(i))

		switch {
		case fenceMarker(content) != "":
			marker := fenceMarker(content)
			info := strings.ToLower(strings.TrimSpace(content[len(marker):]))
			cat := CategoryCode
			if diagramInfoWords[info] {
				cat = CategoryDiagram
			}
			j := i + 1
			for ; j < len(starts); j++ {
				rest := text.StripQuotes(lineText(j))
				if closesFence(rest, marker) {
					break
				}
			}
			end := len(input)
			if j < len(starts) {
				end = lineStop(j)
			}
			spans = append(spans, Span{Start: starts[i], End: end, Category: cat})
			i = j + 1

		case strings.HasPrefix(content, "$$"):
			rest := content[2:]
			if strings.Contains(rest, "$$") {
				spans = append(spans, Span{Start: starts[i], End: lineStop(i), Category: CategoryMath})
				i++
				break
			}
			j := i + 1
			for ; j < len(starts); j++ {
				if strings.Contains(text.StripQuotes(lineText(j)), "$$") {
					break
				}
			}
			end := len(input)
			if j < len(starts) {
				end = lineStop(j)
			}
			spans = append(spans, Span{Start: starts[i], End: end, Category: CategoryMath})
			i = j + 1

		case strings.HasPrefix(content, "%%") && !strings.Contains(content[2:], "%%"):
			j := i + 1
			for ; j < len(starts); j++ {
				if strings.Contains(text.StripQuotes(lineText(j)), "%%") {
					break
				}
			}
			end := len(input)
			if j < len(starts) {
				end = lineStop(j)
			}
			spans = append(spans, Span{Start: starts[i], End: end, Category: CategoryComment})
			i = j + 1

		case strings.HasPrefix(content, "|"):
			j := i + 1
			for ; j < len(starts); j++ {
				if !strings.HasPrefix(text.StripQuotes(lineText(j)), "|") {
					break
				}
			}
			spans = append(spans, Span{Start: starts[i], End: lineStop(j - 1), Category: CategoryTable})
			i = j

		default:
			i++
		}
	}

	return spans
}

// fenceMarker returns the opening fence run ("```" or longer, or
// tildes) when the line opens a fence, or "" otherwise.
func fenceMarker(content string) string {
	for _, ch := range []byte{'`', '~'} {
		n := 0
		for n < len(content) && content[n] == ch {
			n++
		}
		if n >= 3 {
			return content[:n]
		}
	}
	return ""
}

// closesFence reports whether a line closes a fence opened with
// marker: a run of the same character at least as long, and nothing
// else on the line.
func closesFence(content, marker string) bool {
	ch := marker[0]
	n := 0
	for n < len(content) && content[n] == ch {
		n++
	}
	if n < len(marker) {
		return false
	}
	return strings.TrimSpace(content[n:]) == ""
}
