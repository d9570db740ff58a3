package parser

import "github.com/inkwell-labs/journalint/pkg/text"

// BlockKind classifies a parsed block node. Classification is by
// callout-name match against the structure configuration, never by
// content shape.
type BlockKind int

const (
	// KindRoot is the synthetic document root.
	KindRoot BlockKind = iota
	// KindEntry is a top-level journal entry callout.
	KindEntry
	// KindChild is a recognized nested block (e.g. a diary narrative).
	KindChild
	// KindMetrics is a block whose lines are key: value metric entries.
	KindMetrics
	// KindUnknown is a callout whose type no structure recognizes.
	KindUnknown
)

var kindNames = map[BlockKind]string{
	KindRoot:    "root",
	KindEntry:   "entry",
	KindChild:   "sub-entry",
	KindMetrics: "metrics-block",
	KindUnknown: "unknown",
}

func (k BlockKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MetricEntry is one key: value line inside a metrics block. Name
// uniqueness within a block is not a parse-time invariant; duplicate
// handling belongs to rules.
type MetricEntry struct {
	Name  string
	Value string
	// Pos locates the first byte of the name.
	Pos text.Position
	// Span covers the name through the end of the line.
	Span text.Span
}

// BlockNode is a node in the parsed structure tree. Children strictly
// nest inside the parent's body span; the tree is rebuilt wholesale
// on every run and never mutated in place.
type BlockNode struct {
	Kind BlockKind
	// Callout is the marker type as written, e.g. "journal-entry".
	// Empty on the root.
	Callout string
	// Depth is the quote depth of the marker line; 0 for the root.
	Depth int
	// Title is the header text after the callout marker.
	Title string
	// HeaderSpan covers the marker line; for the root it is empty.
	HeaderSpan text.Span
	// BodySpan covers the lines after the header up to the line that
	// closed the block.
	BodySpan text.Span
	Children []*BlockNode
	Metrics  []MetricEntry
}

// Walk visits the node and its descendants depth-first. Returning
// false from fn stops the walk.
func (n *BlockNode) Walk(fn func(*BlockNode) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Tree is the result of one parse: a synthetic root plus the marker
// positions that exceeded the nesting limit and were treated as flat
// content.
type Tree struct {
	Root      *BlockNode
	Truncated []text.Position
}

// Blocks returns all nodes of the given kind in document order.
func (t *Tree) Blocks(kind BlockKind) []*BlockNode {
	var out []*BlockNode
	t.Root.Walk(func(n *BlockNode) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// NodeAt returns the deepest non-root node whose header or body
// contains the offset, or nil. Issues reference their source node by
// position, so hosts re-resolve nodes through this lookup after the
// tree is rebuilt.
func (t *Tree) NodeAt(offset int) *BlockNode {
	var found *BlockNode
	t.Root.Walk(func(n *BlockNode) bool {
		if n.Kind == KindRoot {
			return true
		}
		if n.HeaderSpan.Contains(offset) || n.BodySpan.Contains(offset) {
			found = n
		}
		return true
	})
	return found
}
