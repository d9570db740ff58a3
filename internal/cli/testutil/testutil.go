// Package testutil provides shared helpers for CLI command tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/inkwell-labs/journalint/internal/cli/output"
)

// ValidEntry is a journal document that passes every check under the
// built-in dream-journal structure.
const ValidEntry = `> [!journal-entry] 2024-03-15
> Woke up twice during the night.
>
> > [!dream-metrics]
> > Sensory Detail: 4
> > Emotional Recall: 3
> > Lost Segments: 1
> > Descriptiveness: 4
> > Confidence Score: 5
`

// BrokenEntry is missing every required metric, so checks report at
// least one error against the built-in structure.
const BrokenEntry = `> [!journal-entry] 2024-03-15
> Woke up twice during the night.
>
> > [!dream-metrics]
> > Vividness: 4
`

// SetupTestVault creates a temporary vault with one valid and one
// broken entry and returns its root.
func SetupTestVault(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	daily := filepath.Join(root, "daily")
	if err := os.MkdirAll(daily, 0o750); err != nil {
		t.Fatalf("failed to create directory %s: %v", daily, err)
	}

	files := map[string]string{
		filepath.Join(daily, "2024-03-15.md"): ValidEntry,
		filepath.Join(daily, "2024-03-16.md"): BrokenEntry,
		filepath.Join(root, "notes.txt"):      "not a journal file\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	return root
}

// TestRenderer wraps a Renderer with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a test renderer with the given mode and
// TTY state. Output lands in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a test renderer in text mode without a
// TTY, so styles degrade to plain strings.
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, false)
}

// NewTestRendererMarkdown creates a test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns captured stdout.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns captured stderr.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown sanity checks: balanced
// code fences and no empty headings.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if strings.Count(md, "```")%2 != 0 {
		t.Errorf("unbalanced code fences in markdown output")
	}
	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty heading at line %d: %q", i+1, line)
		}
	}
}
