package lsp

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/inkwell-labs/journalint/pkg/lint"
	"github.com/inkwell-labs/journalint/pkg/parser"
)

// CompletionContextType describes what kind of completion context we're in.
type CompletionContextType int

// Completion context type constants.
const (
	ContextUnknown     CompletionContextType = iota
	ContextCalloutType                       // After "> [!"
	ContextMetricName                        // Blank quoted line inside a metrics block
	ContextEntryDate                         // After an entry callout marker, in the header
	ContextFrontmatter                       // Inside the frontmatter block
)

var calloutNameRe = regexp.MustCompile(`\[!([A-Za-z0-9_-]+)\]`)

// getCompletions returns completion items for the given position.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	ctx, extra := s.detectContext(doc, params.Position)

	switch ctx {
	case ContextCalloutType:
		return s.calloutCompletions(s.extractPrefix(doc, params.Position))
	case ContextMetricName:
		return s.metricCompletions(doc, params.Position, extra)
	case ContextEntryDate:
		return s.dateCompletions(doc, params.Position, extra)
	case ContextFrontmatter:
		return s.frontmatterCompletions(doc, params.Position)
	default:
		// Journal prose; nothing sensible to offer.
		return nil
	}
}

// detectContext determines the completion context at the given
// position. The second return carries the callout type the context
// belongs to, where one applies.
func (s *Server) detectContext(doc *Document, pos Position) (CompletionContextType, string) {
	head := lineHead(doc, pos)

	// 1. An opened, unclosed callout marker: "> [!dre"
	if idx := strings.LastIndex(head, "[!"); idx != -1 && quoteDepth(head) > 0 {
		if !strings.Contains(head[idx:], "]") {
			return ContextCalloutType, ""
		}
	}

	// 2. Frontmatter block.
	if inFrontmatter(doc, int(pos.Line)) {
		return ContextFrontmatter, ""
	}

	// 3. The header of an entry callout wants a date.
	if m := calloutNameRe.FindStringSubmatch(head); m != nil {
		if def, ok := s.structureForEntry(m[1]); ok && len(def.DateFormats) > 0 {
			return ContextEntryDate, m[1]
		}
		return ContextUnknown, ""
	}

	// 4. A quoted line inside a metrics block.
	if quoteDepth(head) > 0 {
		if callout := enclosingCallout(doc, int(pos.Line)); callout != "" {
			if _, ok := s.metricsSpecFor(callout); ok {
				return ContextMetricName, callout
			}
		}
	}

	return ContextUnknown, ""
}

// extractPrefix gets the word being typed at the cursor position.
func (s *Server) extractPrefix(doc *Document, pos Position) string {
	before := doc.GetTextBefore(pos)
	if len(before) == 0 {
		return ""
	}

	start := len(before)
	for start > 0 && isWordChar(before[start-1]) {
		start--
	}

	return before[start:]
}

// calloutCompletions offers every callout type the configured
// structures know, labelled with its role.
func (s *Server) calloutCompletions(prefix string) []CompletionItem {
	var items []CompletionItem
	seen := make(map[string]bool)

	add := func(name, role, doc string) {
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		if !hasFoldPrefix(name, prefix) {
			return
		}
		seen[strings.ToLower(name)] = true
		items = append(items, CompletionItem{
			Label:         name,
			Kind:          CompletionItemKindModule,
			Detail:        role,
			Documentation: doc,
		})
	}

	for _, def := range s.engineCfg.Structure.Structures {
		add(def.EntryCallout,
			fmt.Sprintf("entry callout (%s)", def.Name),
			fmt.Sprintf("Opens a new %s entry. The header line carries the entry date.", def.Name))
		add(def.MetricsCallout,
			fmt.Sprintf("metrics callout (%s)", def.Name),
			"Holds the entry's metric lines, one \"Name: value\" per line.")
		for _, child := range def.ChildCallouts {
			add(child,
				fmt.Sprintf("child callout (%s)", def.Name),
				fmt.Sprintf("Nested block inside a %s entry.", def.Name))
		}
	}

	return items
}

// metricCompletions offers the metric names the enclosing metrics
// block expects, required ones first.
func (s *Server) metricCompletions(doc *Document, pos Position, callout string) []CompletionItem {
	spec, ok := s.metricsSpecFor(callout)
	if !ok {
		return nil
	}

	linePrefix := metricLinePrefix(lineHead(doc, pos))

	var items []CompletionItem
	add := func(name, detail string) {
		if !hasFoldPrefix(name, linePrefix) {
			return
		}
		items = append(items, CompletionItem{
			Label:            name,
			Kind:             CompletionItemKindField,
			Detail:           detail,
			InsertText:       name + ": $1",
			InsertTextFormat: InsertTextFormatSnippet,
		})
	}

	for _, name := range spec.Required {
		add(name, "required metric")
	}
	for _, name := range spec.Optional {
		add(name, "optional metric")
	}

	return items
}

// dateCompletions offers today's date in each header format the entry
// callout's structure accepts.
func (s *Server) dateCompletions(doc *Document, pos Position, callout string) []CompletionItem {
	def, ok := s.structureForEntry(callout)
	if !ok {
		return nil
	}

	head := lineHead(doc, pos)
	typed := ""
	if idx := strings.LastIndex(head, "]"); idx != -1 {
		typed = strings.TrimLeft(head[idx+1:], " \t")
	}

	now := time.Now()
	var items []CompletionItem
	seen := make(map[string]bool)
	for _, layout := range def.DateFormats {
		val := now.Format(layout)
		if seen[val] || !strings.HasPrefix(val, typed) {
			continue
		}
		seen[val] = true
		items = append(items, CompletionItem{
			Label:  val,
			Kind:   CompletionItemKindValue,
			Detail: layout,
		})
	}

	return items
}

// frontmatterCompletions offers the per-file override keys, structure
// names after "structure:", and rule IDs in list items.
func (s *Server) frontmatterCompletions(doc *Document, pos Position) []CompletionItem {
	head := lineHead(doc, pos)
	prefix := s.extractPrefix(doc, pos)

	var items []CompletionItem

	switch {
	case structureValueRe.MatchString(head):
		for _, def := range s.engineCfg.Structure.Structures {
			if hasFoldPrefix(def.Name, prefix) {
				items = append(items, CompletionItem{
					Label:  def.Name,
					Kind:   CompletionItemKindValue,
					Detail: "structure definition",
				})
			}
		}

	case listItemRe.MatchString(head):
		// List items under lint.disabled name rule IDs.
		for _, def := range lint.GetAll() {
			if hasFoldPrefix(def.ID, prefix) {
				items = append(items, CompletionItem{
					Label:         def.ID,
					Kind:          CompletionItemKindConstant,
					Detail:        def.Name,
					Documentation: def.Description,
				})
			}
		}

	default:
		for _, key := range [...]struct{ name, doc string }{
			{"structure", "Selects the structure definition used to validate this file."},
			{"lint", "Per-file lint overrides; lint.disabled lists rule IDs to skip."},
		} {
			if hasFoldPrefix(key.name, prefix) {
				items = append(items, CompletionItem{
					Label:         key.name,
					Kind:          CompletionItemKindProperty,
					Detail:        "validation override",
					Documentation: key.doc,
				})
			}
		}
	}

	return items
}

var (
	structureValueRe = regexp.MustCompile(`^\s*structure:\s*\S*$`)
	listItemRe       = regexp.MustCompile(`^\s*-\s*\S*$`)
	metricNameRe     = regexp.MustCompile(`^((?:\s*>\s*)+)([^:\[\]]+?)\s*:`)
)

// Helper functions

// lineHead returns the cursor line's text up to the cursor column.
func lineHead(doc *Document, pos Position) string {
	line := doc.GetLine(int(pos.Line))
	if int(pos.Character) < len(line) {
		return line[:pos.Character]
	}
	return line
}

// quoteDepth counts the blockquote markers opening a line.
func quoteDepth(line string) int {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '>':
			depth++
		case ' ', '\t':
		default:
			return depth
		}
	}
	return depth
}

// enclosingCallout returns the callout type of the quote block
// containing the line, or empty when the line is not inside one. The
// nearest marker at the line's depth or shallower wins, so metric
// lines resolve to their metrics block rather than the entry.
func enclosingCallout(doc *Document, line int) string {
	depth := quoteDepth(doc.GetLine(line))
	if depth == 0 {
		return ""
	}

	for l := line - 1; l >= 0; l-- {
		text := doc.GetLine(l)
		d := quoteDepth(text)
		if d == 0 {
			return ""
		}
		if d <= depth {
			if m := calloutNameRe.FindStringSubmatch(text); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

// inFrontmatter reports whether the line sits inside the document's
// frontmatter block.
func inFrontmatter(doc *Document, line int) bool {
	if line <= 0 || line >= len(doc.Lines) {
		return false
	}
	if strings.TrimRight(doc.GetLine(0), " \t\r") != "---" {
		return false
	}
	for l := 1; l < line; l++ {
		text := strings.TrimRight(doc.GetLine(l), " \t\r")
		if text == "---" || text == "..." {
			return false
		}
	}
	return true
}

// metricLinePrefix strips the quote markers from a metric line head,
// leaving the partial metric name.
func metricLinePrefix(head string) string {
	i := 0
	for i < len(head) {
		switch head[i] {
		case '>', ' ', '\t':
			i++
		default:
			return head[i:]
		}
	}
	return ""
}

// hasFoldPrefix reports whether s begins with prefix,
// case-insensitively.
func hasFoldPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// structureForEntry returns the structure whose entry callout matches
// the name.
func (s *Server) structureForEntry(name string) (parser.StructureDef, bool) {
	for _, def := range s.engineCfg.Structure.Structures {
		if strings.EqualFold(def.EntryCallout, name) && def.EntryCallout != "" {
			return def, true
		}
	}
	return parser.StructureDef{}, false
}

// metricsSpecFor returns the metrics spec of the structure whose
// metrics callout matches the name.
func (s *Server) metricsSpecFor(callout string) (parser.MetricsSpec, bool) {
	for _, def := range s.engineCfg.Structure.Structures {
		if strings.EqualFold(def.MetricsCallout, callout) && def.MetricsCallout != "" {
			return def.Metrics, true
		}
	}
	return parser.MetricsSpec{}, false
}

// getHover returns hover information for the position.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}

	if h := s.calloutHover(doc, params.Position); h != nil {
		return h
	}
	if h := s.metricHover(doc, params.Position); h != nil {
		return h
	}

	// Rule IDs, typically in a frontmatter lint.disabled list.
	word, _ := doc.GetWordAtPosition(params.Position)
	if word != "" {
		if def, ok := lint.GetByID(word); ok {
			return &Hover{
				Contents: MarkupContent{
					Kind:  MarkupKindMarkdown,
					Value: fmt.Sprintf("**%s** (%s)\n\n%s", def.ID, def.Name, def.Description),
				},
			}
		}
	}

	return nil
}

// calloutHover describes the callout marker under the cursor, if it
// belongs to a configured structure.
func (s *Server) calloutHover(doc *Document, pos Position) *Hover {
	line := doc.GetLine(int(pos.Line))
	col := int(pos.Character)

	for _, m := range calloutNameRe.FindAllStringSubmatchIndex(line, -1) {
		if col < m[2] || col > m[3] {
			continue
		}
		name := line[m[2]:m[3]]

		for _, def := range s.engineCfg.Structure.Structures {
			role, detail := "", ""
			switch {
			case strings.EqualFold(def.EntryCallout, name) && def.EntryCallout != "":
				role = "entry callout"
				detail = fmt.Sprintf("Opens a %s entry. The header line carries the entry date", def.Name)
				if len(def.DateFormats) > 0 {
					detail += fmt.Sprintf(" (%s)", strings.Join(def.DateFormats, ", "))
				}
				detail += "."
			case strings.EqualFold(def.MetricsCallout, name) && def.MetricsCallout != "":
				role = "metrics callout"
				detail = "Holds the entry's metric lines."
				if len(def.Metrics.Required) > 0 {
					detail += " Required: " + strings.Join(def.Metrics.Required, ", ") + "."
				}
			case def.RecognizesChild(name):
				role = "child callout"
				detail = fmt.Sprintf("Nested block inside a %s entry.", def.Name)
			default:
				continue
			}

			return &Hover{
				Contents: MarkupContent{
					Kind:  MarkupKindMarkdown,
					Value: fmt.Sprintf("**%s** (%s, %s)\n\n%s", name, role, def.Name, detail),
				},
			}
		}
	}

	return nil
}

// metricHover describes the metric name under the cursor on a line
// inside a metrics block.
func (s *Server) metricHover(doc *Document, pos Position) *Hover {
	line := doc.GetLine(int(pos.Line))

	m := metricNameRe.FindStringSubmatchIndex(line)
	if m == nil {
		return nil
	}
	col := int(pos.Character)
	if col < m[4] || col > m[5] {
		return nil
	}
	name := strings.TrimSpace(line[m[4]:m[5]])
	if name == "" {
		return nil
	}

	callout := enclosingCallout(doc, int(pos.Line))
	spec, ok := s.metricsSpecFor(callout)
	if !ok {
		return nil
	}

	role, detail := "", ""
	switch {
	case containsFold(spec.Required, name):
		role = "required metric"
		detail = fmt.Sprintf("One of the %d metrics every %s block must list.", len(spec.Required), callout)
	case containsFold(spec.Optional, name):
		role = "optional metric"
		detail = fmt.Sprintf("Allowed in %s blocks but not required.", callout)
	case spec.AllowAdditional:
		role = "additional metric"
		detail = "Not part of the configured metric set; the structure accepts additional metrics."
	default:
		role = "unknown metric"
		detail = "Not part of the configured metric set."
		candidates := append(append([]string(nil), spec.Required...), spec.Optional...)
		if suggestions := suggestSimilar(name, candidates, 3); len(suggestions) > 0 {
			detail += fmt.Sprintf(" Did you mean '%s'?", suggestions[0])
		}
	}

	return &Hover{
		Contents: MarkupContent{
			Kind:  MarkupKindMarkdown,
			Value: fmt.Sprintf("**%s** (%s)\n\n%s", name, role, detail),
		},
	}
}

// containsFold reports whether the list contains the name,
// case-insensitively.
func containsFold(list []string, name string) bool {
	for _, s := range list {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}
