// Package parser builds a tree of nested callout blocks from
// classified journal text.
//
// Parsing is line-oriented and total: any input produces a tree. An
// explicit stack keyed by quote depth tracks open blocks; block
// markers are recognized only where the classifier reports the text
// as plain-equivalent, so a callout-looking line inside a code fence
// never opens a block. A line shallower than the open block closes
// it — the quote depth, not the marker text, is the deciding signal —
// and a marker line closes blocks at its own depth before opening a
// sibling.
package parser

import (
	"regexp"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/text"
)

// MaxNestingDepth bounds the block tree. Markers quoted deeper than
// this are recorded on Tree.Truncated and treated as flat content.
const MaxNestingDepth = 16

var (
	calloutRe = regexp.MustCompile(`^\[!([A-Za-z][A-Za-z0-9/_-]*)\]([+-]?)[ \t]*(.*)$`)
	metricRe  = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 _/-]*?)[ \t]*:[ \t]*(.*?)[ \t]*$`)
)

// Parse builds the block tree for a classified document. It never
// fails: empty input yields a bare root, unterminated blocks close at
// document end, and markers beyond MaxNestingDepth degrade to flat
// content.
func Parse(doc *text.Index, spans *classify.Result, cfg StructureConfig) *Tree {
	content := doc.Content()
	root := &BlockNode{
		Kind:     KindRoot,
		BodySpan: doc.SpanFor(0, len(content)),
	}
	tree := &Tree{Root: root}

	stack := []*BlockNode{root}
	top := func() *BlockNode { return stack[len(stack)-1] }

	// closeTo pops open blocks until the top is shallower than depth,
	// ending each body at the given offset.
	closeTo := func(depth, endOffset int) {
		for len(stack) > 1 && top().Depth >= depth {
			n := top()
			if endOffset < n.BodySpan.Start.Offset {
				endOffset = n.BodySpan.Start.Offset
			}
			n.BodySpan.End = doc.PositionFor(endOffset)
			stack = stack[:len(stack)-1]
		}
	}

	for lineNo := 1; lineNo <= doc.LineCount(); lineNo++ {
		lineStart, lineEnd := doc.Line(lineNo)
		raw := content[lineStart:lineEnd]
		depth := text.QuoteDepth(raw)
		body := text.StripQuotes(raw)
		bodyStart := lineStart + (len(raw) - len(body))

		if m := calloutRe.FindStringSubmatch(body); m != nil && depth > 0 {
			markerLen := len(m[0]) - len(m[3])
			if !spans.Opaque(bodyStart, bodyStart+markerLen) {
				if depth > MaxNestingDepth {
					tree.Truncated = append(tree.Truncated, doc.PositionFor(bodyStart))
					continue
				}

				// Close takes priority: a marker at the depth of an
				// open block ends it and opens a sibling.
				closeTo(depth, lineStart)

				node := &BlockNode{
					Kind:       cfg.kindOf(m[1]),
					Callout:    m[1],
					Depth:      depth,
					Title:      strings.TrimSpace(m[3]),
					HeaderSpan: doc.SpanFor(lineStart, lineEnd),
				}
				bodyFrom := doc.OffsetFor(lineNo+1, 1)
				node.BodySpan = doc.SpanFor(bodyFrom, bodyFrom)

				top().Children = append(top().Children, node)
				stack = append(stack, node)
				continue
			}
		}

		// Non-marker line: anything shallower than the open block
		// closes it.
		closeTo(depth+1, lineStart)

		if n := top(); n.Kind == KindMetrics {
			if m := metricRe.FindStringSubmatch(body); m != nil && !spans.Opaque(bodyStart, bodyStart+len(m[1])) {
				n.Metrics = append(n.Metrics, MetricEntry{
					Name:  strings.TrimSpace(m[1]),
					Value: m[2],
					Pos:   doc.PositionFor(bodyStart),
					Span:  doc.SpanFor(bodyStart, lineEnd),
				})
			}
		}
	}

	closeTo(1, len(content))
	return tree
}
