package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newBufRenderer(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty defaults to auto", "", false, ModeMarkdown},
		{"explicit text stays", ModeText, false, ModeText},
		{"explicit json stays", ModeJSON, true, ModeJSON},
		{"explicit markdown stays", ModeMarkdown, true, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newBufRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, Mode("").Valid())
	assert.True(t, ModeAuto.Valid())
	assert.True(t, ModeJSON.Valid())
	assert.False(t, Mode("yaml").Valid())
}

func TestHeaderMarkdown(t *testing.T) {
	r, out, _ := newBufRenderer(ModeMarkdown, false)

	r.Header(1, "Report")
	r.Header(2, "Details")

	assert.Contains(t, out.String(), "# Report\n")
	assert.Contains(t, out.String(), "## Details\n")
}

func TestHeaderTextHasNoHashes(t *testing.T) {
	r, out, _ := newBufRenderer(ModeText, false)

	r.Header(1, "Report")

	assert.NotContains(t, out.String(), "#")
	assert.Contains(t, out.String(), "Report")
}

func TestMarkdownOutputHasNoANSI(t *testing.T) {
	r, out, errOut := newBufRenderer(ModeMarkdown, false)

	r.Header(1, "Report")
	r.Success("all good")
	r.Warning("careful")
	r.Error("broken")
	r.Muted("aside")
	r.StatusLine("entry.md", "warn", "2 issues")

	assert.False(t, ansiRe.MatchString(out.String()), "stdout contains ANSI codes: %q", out.String())
	assert.False(t, ansiRe.MatchString(errOut.String()), "stderr contains ANSI codes: %q", errOut.String())
}

func TestErrorAndWarningGoToStderr(t *testing.T) {
	r, out, errOut := newBufRenderer(ModeText, false)

	r.Error("bad input")
	r.Warning("heads up")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "bad input")
	assert.Contains(t, errOut.String(), "heads up")
}

func TestStatusLine(t *testing.T) {
	r, out, _ := newBufRenderer(ModeText, false)

	r.StatusLine("entry.md", "success", "")
	r.StatusLine("broken.md", "error", "3 issues")

	assert.Contains(t, out.String(), "✓ entry.md")
	assert.Contains(t, out.String(), "✗ broken.md 3 issues")
}

func TestJSON(t *testing.T) {
	r, out, _ := newBufRenderer(ModeJSON, false)

	require.NoError(t, r.JSON(CheckSummary{Files: 2, Errors: 1}))

	var got CheckSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.Files)
	assert.Equal(t, 1, got.Errors)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Rules", FormatHeader(2, "Rules"))
	assert.Equal(t, "- **Files**: 3", FormatKeyValue("Files", "3"))
	assert.Equal(t, "```markdown\n> [!journal-entry]\n```", FormatCodeBlock("markdown", "> [!journal-entry]\n"))
}

func TestSpinnerDisabledWhenPiped(t *testing.T) {
	r, _, errOut := newBufRenderer(ModeMarkdown, false)

	sp := r.NewSpinner("checking...")
	sp.Start()
	sp.Success("done")

	// No animation frames, only the final line.
	assert.Equal(t, "✓ done\n", errOut.String())
}

func TestSpinnerFailLine(t *testing.T) {
	r, _, errOut := newBufRenderer(ModeText, false)

	sp := r.NewSpinner("checking...")
	sp.Start()
	sp.Fail("check failed")

	assert.Contains(t, errOut.String(), "✗ check failed")
}
