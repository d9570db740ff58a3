// Package text provides document positions, spans, and a line-offset
// index shared by the classifier, parser, and rule engine.
package text

import (
	"sort"
	"strings"
)

// Index maps between byte offsets and line/column positions for one
// document. It is built once per validation run and treated as
// immutable afterwards.
type Index struct {
	content string
	lines   []int // byte offset of each line start
}

// NewIndex builds a line-offset index for content.
func NewIndex(content string) *Index {
	offsets := []int{0} // first line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return &Index{content: content, lines: offsets}
}

// Content returns the indexed document text.
func (ix *Index) Content() string {
	return ix.content
}

// LineCount returns the number of lines in the document. An empty
// document has one (empty) line.
func (ix *Index) LineCount() int {
	return len(ix.lines)
}

// Line returns the half-open byte range [start, end) of the 1-based
// line n, excluding the trailing newline. Out-of-range lines return
// an empty range at the document end.
func (ix *Index) Line(n int) (start, end int) {
	if n < 1 || n > len(ix.lines) {
		return len(ix.content), len(ix.content)
	}

	start = ix.lines[n-1]
	end = len(ix.content)
	if n < len(ix.lines) {
		end = ix.lines[n] - 1 // drop the '\n'
	}
	// Tolerate CRLF input.
	if end > start && ix.content[end-1] == '\r' {
		end--
	}
	return start, end
}

// LineText returns the text of the 1-based line n without its line
// terminator.
func (ix *Index) LineText(n int) string {
	start, end := ix.Line(n)
	return ix.content[start:end]
}

// PositionFor converts a byte offset to a Position. Offsets are
// clamped to the document bounds.
func (ix *Index) PositionFor(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.content) {
		offset = len(ix.content)
	}

	// lines is sorted ascending, so binary search for the line.
	line := sort.Search(len(ix.lines), func(i int) bool {
		return ix.lines[i] > offset
	})

	return Position{
		Line:   line,
		Column: offset - ix.lines[line-1] + 1,
		Offset: offset,
	}
}

// OffsetFor converts a 1-based line/column pair to a byte offset,
// clamped to the document bounds.
func (ix *Index) OffsetFor(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(ix.lines) {
		return len(ix.content)
	}

	offset := ix.lines[line-1] + column - 1
	if offset > len(ix.content) {
		offset = len(ix.content)
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// SpanFor builds a Span from a half-open byte range.
func (ix *Index) SpanFor(start, end int) Span {
	return Span{Start: ix.PositionFor(start), End: ix.PositionFor(end)}
}

// Slice returns the document text in [start, end), clamped to bounds.
func (ix *Index) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(ix.content) {
		end = len(ix.content)
	}
	if start >= end {
		return ""
	}
	return ix.content[start:end]
}

// QuoteDepth returns the number of leading blockquote markers on a
// line, counting each '>' that is separated only by spaces or tabs.
func QuoteDepth(line string) int {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '>':
			depth++
		case ' ', '\t':
			// skip
		default:
			return depth
		}
	}
	return depth
}

// StripQuotes removes the leading blockquote markers and their
// surrounding indentation from a line, returning the content.
func StripQuotes(line string) string {
	i := 0
	for i < len(line) {
		switch line[i] {
		case '>', '\t':
			i++
		case ' ':
			i++
		default:
			return line[i:]
		}
	}
	return ""
}

// QuotePrefix returns the leading blockquote marker prefix of a line,
// up to but excluding the first content byte.
func QuotePrefix(line string) string {
	return line[:len(line)-len(StripQuotes(line))]
}

// IsBlank reports whether a line contains only whitespace after its
// quote markers.
func IsBlank(line string) bool {
	return strings.TrimSpace(StripQuotes(line)) == ""
}
