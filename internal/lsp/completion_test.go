package lsp

import (
	"strings"
	"testing"
	"time"

	"github.com/inkwell-labs/journalint/pkg/parser"
	"github.com/inkwell-labs/journalint/pkg/session"
)

func TestQuoteDepth(t *testing.T) {
	tests := []struct {
		line     string
		expected int
	}{
		{"", 0},
		{"plain text", 0},
		{"> ", 1},
		{"> quoted", 1},
		{"> > ", 2},
		{">> text", 2},
		{"  > > [!dream-metrics]", 2},
		{"\t> \t> x", 2},
		{"> [!journal-entry] 2024-03-15", 1},
	}

	for _, tt := range tests {
		result := quoteDepth(tt.line)
		if result != tt.expected {
			t.Errorf("quoteDepth(%q): expected %d, got %d", tt.line, tt.expected, result)
		}
	}
}

func TestMetricLinePrefix(t *testing.T) {
	tests := []struct {
		head     string
		expected string
	}{
		{"", ""},
		{"> > ", ""},
		{">>", ""},
		{"> > Sen", "Sen"},
		{"> > Sensory Detail", "Sensory Detail"},
		{"no quotes", "no quotes"},
	}

	for _, tt := range tests {
		result := metricLinePrefix(tt.head)
		if result != tt.expected {
			t.Errorf("metricLinePrefix(%q): expected %q, got %q", tt.head, tt.expected, result)
		}
	}
}

func TestHasFoldPrefix(t *testing.T) {
	tests := []struct {
		s        string
		prefix   string
		expected bool
	}{
		{"journal-entry", "jour", true},
		{"Journal-Entry", "journal", true},
		{"Sensory Detail", "sens", true},
		{"dream", "dreams", false},
		{"anything", "", true},
		{"ST01", "st", true},
	}

	for _, tt := range tests {
		result := hasFoldPrefix(tt.s, tt.prefix)
		if result != tt.expected {
			t.Errorf("hasFoldPrefix(%q, %q): expected %v, got %v", tt.s, tt.prefix, tt.expected, result)
		}
	}
}

func TestInFrontmatter(t *testing.T) {
	content := "---\nstructure: dream-journal\n---\n> [!journal-entry] 2024-03-15"
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		line     int
		expected bool
	}{
		{0, false}, // the opening fence itself
		{1, true},
		{3, false}, // past the closing fence
		{100, false},
	}

	for _, tt := range tests {
		result := inFrontmatter(doc, tt.line)
		if result != tt.expected {
			t.Errorf("inFrontmatter(line=%d): expected %v, got %v", tt.line, tt.expected, result)
		}
	}

	// No frontmatter at all
	plain := &Document{
		Content: "> [!journal-entry] 2024-03-15\nprose",
		Lines:   computeLineOffsets("> [!journal-entry] 2024-03-15\nprose"),
	}
	if inFrontmatter(plain, 1) {
		t.Error("inFrontmatter: expected false without an opening fence")
	}
}

func TestEnclosingCallout(t *testing.T) {
	content := "> [!journal-entry] 2024-03-15\n" +
		"> Narrative line.\n" +
		">\n" +
		"> > [!dream-metrics]\n" +
		"> > Sensory Detail: 4\n" +
		"> > "
	doc := &Document{
		Content: content,
		Lines:   computeLineOffsets(content),
	}

	tests := []struct {
		line     int
		expected string
	}{
		{0, ""}, // the entry header has nothing above it
		{1, "journal-entry"},
		{2, "journal-entry"},
		{4, "dream-metrics"},
		{5, "dream-metrics"},
	}

	for _, tt := range tests {
		result := enclosingCallout(doc, tt.line)
		if result != tt.expected {
			t.Errorf("enclosingCallout(line=%d): expected %q, got %q", tt.line, tt.expected, result)
		}
	}

	// A line outside any quote block
	prose := &Document{
		Content: "> [!journal-entry] 2024-03-15\n\nplain prose",
		Lines:   computeLineOffsets("> [!journal-entry] 2024-03-15\n\nplain prose"),
	}
	if got := enclosingCallout(prose, 2); got != "" {
		t.Errorf("enclosingCallout(prose line): expected empty, got %q", got)
	}
}

func TestServer_DetectContext(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	tests := []struct {
		name        string
		content     string
		pos         Position
		expectedCtx CompletionContextType
		expectedArg string
	}{
		{
			name:        "callout type",
			content:     "> [!jour",
			pos:         Position{Line: 0, Character: 8},
			expectedCtx: ContextCalloutType,
		},
		{
			name:        "nested callout type",
			content:     "> > [!dre",
			pos:         Position{Line: 0, Character: 9},
			expectedCtx: ContextCalloutType,
		},
		{
			name:        "frontmatter",
			content:     "---\nstructure: \n---\n",
			pos:         Position{Line: 1, Character: 11},
			expectedCtx: ContextFrontmatter,
		},
		{
			name:        "entry date",
			content:     "> [!journal-entry] ",
			pos:         Position{Line: 0, Character: 19},
			expectedCtx: ContextEntryDate,
			expectedArg: "journal-entry",
		},
		{
			name: "metric name",
			content: "> [!journal-entry] 2024-03-15\n" +
				"> Narrative.\n" +
				">\n" +
				"> > [!dream-metrics]\n" +
				"> > ",
			pos:         Position{Line: 4, Character: 4},
			expectedCtx: ContextMetricName,
			expectedArg: "dream-metrics",
		},
		{
			name:        "complete child marker",
			content:     "> > [!dream-diary]",
			pos:         Position{Line: 0, Character: 18},
			expectedCtx: ContextUnknown,
		},
		{
			name:        "prose",
			content:     "Walked through a corridor of doors.",
			pos:         Position{Line: 0, Character: 10},
			expectedCtx: ContextUnknown,
		},
		{
			name:        "empty",
			content:     "",
			pos:         Position{Line: 0, Character: 0},
			expectedCtx: ContextUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{
				Content: tt.content,
				Lines:   computeLineOffsets(tt.content),
			}

			ctx, arg := server.detectContext(doc, tt.pos)
			if ctx != tt.expectedCtx {
				t.Errorf("detectContext: expected ctx %v, got %v", tt.expectedCtx, ctx)
			}
			if tt.expectedArg != "" && arg != tt.expectedArg {
				t.Errorf("detectContext: expected arg %q, got %q", tt.expectedArg, arg)
			}
		})
	}
}

func TestServer_ExtractPrefix(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
	}

	tests := []struct {
		content  string
		pos      Position
		expected string
	}{
		{"> [!", Position{Line: 0, Character: 4}, ""},
		{"> [!jour", Position{Line: 0, Character: 8}, "jour"},
		{"> [!dream-me", Position{Line: 0, Character: 12}, "dream-me"},
		{"structure: dre", Position{Line: 0, Character: 14}, "dre"},
		{"ST0", Position{Line: 0, Character: 3}, "ST0"},
		{"", Position{Line: 0, Character: 0}, ""},
	}

	for _, tt := range tests {
		doc := &Document{
			Content: tt.content,
			Lines:   computeLineOffsets(tt.content),
		}

		result := server.extractPrefix(doc, tt.pos)
		if result != tt.expected {
			t.Errorf("extractPrefix(%q, %v): expected %q, got %q", tt.content, tt.pos, tt.expected, result)
		}
	}
}

func TestServer_GetCompletions_CalloutTypes(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "> [!"
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 4},
		},
	}

	items := server.getCompletions(params)

	for _, want := range []string{"journal-entry", "dream-diary", "dream-metrics"} {
		found := false
		for _, item := range items {
			if item.Label == want {
				found = true
				if item.Kind != CompletionItemKindModule {
					t.Errorf("expected %s to be a module item, got kind %d", want, item.Kind)
				}
				break
			}
		}
		if !found {
			t.Errorf("expected %q in callout completions", want)
		}
	}
}

func TestServer_GetCompletions_CalloutPrefix(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "> [!DRE"
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 7},
		},
	}

	items := server.getCompletions(params)

	// Prefix filtering folds case
	for _, item := range items {
		if !strings.HasPrefix(item.Label, "dream-") {
			t.Errorf("expected only dream-* completions for DRE prefix, got %q", item.Label)
		}
	}
	if len(items) != 2 {
		t.Errorf("expected dream-diary and dream-metrics, got %d items", len(items))
	}
}

const metricsEntry = "> [!journal-entry] 2024-03-15\n" +
	"> Narrative.\n" +
	">\n" +
	"> > [!dream-metrics]\n" +
	"> > "

func TestServer_GetCompletions_MetricNames(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	server.documents.Open(uri, metricsEntry, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 4, Character: 4},
		},
	}

	items := server.getCompletions(params)

	// The default structure requires five metrics
	if len(items) != 5 {
		t.Fatalf("expected 5 metric completions, got %d", len(items))
	}

	first := items[0]
	if first.Label != "Sensory Detail" {
		t.Errorf("expected required metrics first, got %q", first.Label)
	}
	if first.Detail != "required metric" {
		t.Errorf("expected required metric detail, got %q", first.Detail)
	}
	if first.Kind != CompletionItemKindField {
		t.Errorf("expected field kind, got %d", first.Kind)
	}
	if first.InsertText != "Sensory Detail: $1" {
		t.Errorf("expected value snippet, got %q", first.InsertText)
	}
	if first.InsertTextFormat != InsertTextFormatSnippet {
		t.Error("expected snippet format")
	}
}

func TestServer_GetCompletions_MetricNamePrefix(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := strings.TrimSuffix(metricsEntry, "> > ") + "> > Sen"
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 4, Character: 7},
		},
	}

	items := server.getCompletions(params)

	if len(items) != 1 {
		t.Fatalf("expected 1 metric completion for 'Sen', got %d", len(items))
	}
	if items[0].Label != "Sensory Detail" {
		t.Errorf("expected Sensory Detail, got %q", items[0].Label)
	}
}

func TestServer_GetCompletions_EntryDate(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/today.md"
	content := "> [!journal-entry] "
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 19},
		},
	}

	items := server.getCompletions(params)

	// One item per configured date format, carrying today's date
	if len(items) != 2 {
		t.Fatalf("expected 2 date completions, got %d", len(items))
	}

	now := time.Now()
	for i, layout := range []string{"2006-01-02", "January 2, 2006"} {
		if items[i].Label != now.Format(layout) {
			t.Errorf("expected %q, got %q", now.Format(layout), items[i].Label)
		}
		if items[i].Detail != layout {
			t.Errorf("expected layout detail %q, got %q", layout, items[i].Detail)
		}
	}
}

func TestServer_GetCompletions_EntryDateTyped(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/today.md"
	content := "> [!journal-entry] 2"
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 20},
		},
	}

	items := server.getCompletions(params)

	// Only the ISO format starts with a digit
	if len(items) != 1 {
		t.Fatalf("expected 1 date completion for '2' prefix, got %d", len(items))
	}
	if items[0].Label != time.Now().Format("2006-01-02") {
		t.Errorf("expected today's ISO date, got %q", items[0].Label)
	}
}

func TestServer_GetCompletions_FrontmatterKeys(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "---\nst"
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 1, Character: 2},
		},
	}

	items := server.getCompletions(params)

	if len(items) != 1 {
		t.Fatalf("expected 1 key completion for 'st', got %d", len(items))
	}
	if items[0].Label != "structure" {
		t.Errorf("expected structure key, got %q", items[0].Label)
	}
	if items[0].Kind != CompletionItemKindProperty {
		t.Errorf("expected property kind, got %d", items[0].Kind)
	}
}

func TestServer_GetCompletions_FrontmatterStructureValue(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "---\nstructure: "
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 1, Character: 11},
		},
	}

	items := server.getCompletions(params)

	found := false
	for _, item := range items {
		if item.Label == "dream-journal" {
			found = true
			if item.Detail != "structure definition" {
				t.Errorf("expected structure definition detail, got %q", item.Detail)
			}
			break
		}
	}
	if !found {
		t.Error("expected 'dream-journal' in structure value completions")
	}
}

func TestServer_GetCompletions_FrontmatterRuleIDs(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "---\nlint:\n  disabled:\n    - ST"
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 3, Character: 8},
		},
	}

	items := server.getCompletions(params)

	if len(items) == 0 {
		t.Fatal("expected rule ID completions for 'ST' prefix")
	}

	var st01 *CompletionItem
	for i := range items {
		if !strings.HasPrefix(items[i].Label, "ST") {
			t.Errorf("expected only ST rules for ST prefix, got %q", items[i].Label)
		}
		if items[i].Label == "ST01" {
			st01 = &items[i]
		}
	}

	if st01 == nil {
		t.Fatal("expected ST01 in rule ID completions")
	}
	if st01.Detail != "structure.required_children" {
		t.Errorf("expected rule name detail, got %q", st01.Detail)
	}
	if st01.Documentation == "" {
		t.Error("expected rule description as documentation")
	}
}

func TestServer_GetCompletions_Prose(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "Had a strange dream about a corridor."
	server.documents.Open(uri, content, 1)

	params := CompletionParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 12},
		},
	}

	if items := server.getCompletions(params); len(items) != 0 {
		t.Errorf("expected no completions in prose, got %d", len(items))
	}

	// Unopened document
	params.TextDocument.URI = "file:///vault/other.md"
	if items := server.getCompletions(params); items != nil {
		t.Error("expected nil completions for unknown document")
	}
}

func TestServer_GetHover_EntryCallout(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "> [!journal-entry] 2024-03-15"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 8}, // on "journal-entry"
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for entry callout")
	}
	for _, want := range []string{"journal-entry", "entry callout", "dream-journal", "2006-01-02"} {
		if !strings.Contains(hover.Contents.Value, want) {
			t.Errorf("hover should contain %q, got %q", want, hover.Contents.Value)
		}
	}
}

func TestServer_GetHover_MetricsCallout(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "> > [!dream-metrics]"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 10}, // on "dream-metrics"
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for metrics callout")
	}
	if !strings.Contains(hover.Contents.Value, "metrics callout") {
		t.Errorf("hover should describe the metrics role, got %q", hover.Contents.Value)
	}
	if !strings.Contains(hover.Contents.Value, "Required: Sensory Detail") {
		t.Errorf("hover should list required metrics, got %q", hover.Contents.Value)
	}
}

func TestServer_GetHover_ChildCallout(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "> > [!dream-diary]"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 10}, // on "dream-diary"
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for child callout")
	}
	if !strings.Contains(hover.Contents.Value, "child callout") {
		t.Errorf("hover should describe the child role, got %q", hover.Contents.Value)
	}
	if !strings.Contains(hover.Contents.Value, "Nested block") {
		t.Errorf("hover should describe nesting, got %q", hover.Contents.Value)
	}
}

func TestServer_GetHover_RequiredMetric(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := strings.TrimSuffix(metricsEntry, "> > ") + "> > Sensory Detail: 4"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 4, Character: 5}, // on "Sensory Detail"
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for metric name")
	}
	if !strings.Contains(hover.Contents.Value, "Sensory Detail") {
		t.Errorf("hover should contain the metric name, got %q", hover.Contents.Value)
	}
	if !strings.Contains(hover.Contents.Value, "required metric") {
		t.Errorf("hover should mark the metric required, got %q", hover.Contents.Value)
	}
}

func TestServer_GetHover_AdditionalMetric(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := strings.TrimSuffix(metricsEntry, "> > ") + "> > Lucidity: 3"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 4, Character: 6}, // on "Lucidity"
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for additional metric")
	}
	if !strings.Contains(hover.Contents.Value, "additional metric") {
		t.Errorf("hover should mark the metric additional, got %q", hover.Contents.Value)
	}
}

func TestServer_GetHover_UnknownMetricSuggests(t *testing.T) {
	// A structure that rejects unlisted metrics, so a typo is reported
	// as unknown rather than additional.
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.StructureConfig{
			Default: "dream-journal",
			Structures: []parser.StructureDef{{
				Name:           "dream-journal",
				EntryCallout:   "journal-entry",
				MetricsCallout: "dream-metrics",
				Metrics: parser.MetricsSpec{
					Required: []string{"Sensory Detail", "Emotional Recall"},
				},
			}},
		}},
	}

	uri := "file:///vault/2024-03-15.md"
	content := strings.TrimSuffix(metricsEntry, "> > ") + "> > Sensory Detial: 4"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 4, Character: 6}, // on the misspelled name
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for unknown metric")
	}
	if !strings.Contains(hover.Contents.Value, "unknown metric") {
		t.Errorf("hover should mark the metric unknown, got %q", hover.Contents.Value)
	}
	if !strings.Contains(hover.Contents.Value, "Did you mean 'Sensory Detail'?") {
		t.Errorf("hover should suggest the close match, got %q", hover.Contents.Value)
	}
}

func TestServer_GetHover_RuleID(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "---\nlint:\n  disabled:\n    - ST01\n---\n"
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 3, Character: 7}, // on "ST01"
		},
	}

	hover := server.getHover(params)

	if hover == nil {
		t.Fatal("expected hover info for rule ID")
	}
	if !strings.Contains(hover.Contents.Value, "ST01") {
		t.Errorf("hover should contain the rule ID, got %q", hover.Contents.Value)
	}
	if !strings.Contains(hover.Contents.Value, "structure.required_children") {
		t.Errorf("hover should contain the rule name, got %q", hover.Contents.Value)
	}
}

func TestServer_GetHover_NoResult(t *testing.T) {
	server := &Server{
		documents: NewDocumentStore(),
		engineCfg: session.Config{Structure: parser.DefaultStructureConfig()},
	}

	uri := "file:///vault/2024-03-15.md"
	content := "Walked through a corridor of doors."
	server.documents.Open(uri, content, 1)

	params := HoverParams{
		TextDocumentPositionParams: TextDocumentPositionParams{
			TextDocument: TextDocumentIdentifier{URI: uri},
			Position:     Position{Line: 0, Character: 10},
		},
	}

	if hover := server.getHover(params); hover != nil {
		t.Errorf("expected no hover for prose, got %q", hover.Contents.Value)
	}

	// Unopened document
	params.TextDocument.URI = "file:///vault/other.md"
	if hover := server.getHover(params); hover != nil {
		t.Error("expected nil hover for unknown document")
	}
}
