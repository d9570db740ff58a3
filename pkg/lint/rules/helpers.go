package rules

import (
	"fmt"
	"strings"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

// entryLabel names an entry in a message: its title when it has one,
// otherwise its header line.
func entryLabel(entry *parser.BlockNode) string {
	if entry.Title != "" {
		return fmt.Sprintf("entry %q", entry.Title)
	}
	return fmt.Sprintf("entry at line %d", entry.HeaderSpan.Start.Line)
}

// canonicalCallout returns the configured spelling for a callout type,
// matched case-insensitively against the structure's entry, metrics
// and child callouts.
func canonicalCallout(def *parser.StructureDef, callout string) (string, bool) {
	names := make([]string, 0, len(def.ChildCallouts)+2)
	names = append(names, def.EntryCallout, def.MetricsCallout)
	names = append(names, def.ChildCallouts...)
	for _, name := range names {
		if name != "" && strings.EqualFold(name, callout) {
			return name, true
		}
	}
	return "", false
}

// subtreeBlocks returns the node's descendants (the node itself
// excluded) in document order.
func subtreeBlocks(node *parser.BlockNode) []*parser.BlockNode {
	var out []*parser.BlockNode
	node.Walk(func(n *parser.BlockNode) bool {
		if n != node {
			out = append(out, n)
		}
		return true
	})
	return out
}

// deleteLineFix removes an entire line including its terminator.
func deleteLineFix(doc *lint.Document, line int, description string) lint.Fix {
	start, end := doc.Index.Line(line)
	stop := end
	if stop < len(doc.Text) && doc.Text[stop] == '\r' {
		stop++
	}
	if stop < len(doc.Text) && doc.Text[stop] == '\n' {
		stop++
	}
	return lint.Fix{
		Description: description,
		TextEdits: []lint.TextEdit{{
			Pos:     doc.Index.PositionFor(start),
			EndPos:  doc.Index.PositionFor(stop),
			NewText: "",
			OldText: doc.Text[start:stop],
		}},
	}
}
