package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Renderer writes command output in the configured mode. It is not
// safe for concurrent use; commands that fan work out across
// goroutines collect results first and render from one place.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles Styles
}

// NewRenderer creates a renderer, detecting TTY state from out.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}
	return NewRendererWithTTY(out, errOut, isTTY, mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
// Tests use this to pin auto-mode resolution to a known answer.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}
	// NO_COLOR and CLICOLOR=0 turn styling off even on a TTY.
	if isTTY && r.EffectiveMode() == ModeText && !termenv.EnvNoColor() {
		r.styles = defaultStyles()
	} else {
		r.styles = plainStyles()
	}
	return r
}

// EffectiveMode resolves auto to a concrete mode: text on a TTY,
// markdown when piped. Explicit modes pass through unchanged.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Writer returns the stdout writer for components that render
// directly, such as table writers.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Styles returns the active style set.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Println writes a line to stdout.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Success writes a line with a leading check mark to stdout.
func (r *Renderer) Success(s string) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.styles.StatusSuccess.String(), r.styles.Success.Render(s))
}

// Error writes an error line to stderr.
func (r *Renderer) Error(s string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.styles.StatusFailed.String(), r.styles.Error.Render(s))
}

// Warning writes a warning line to stderr.
func (r *Renderer) Warning(s string) {
	_, _ = fmt.Fprintf(r.errOut, "%s %s\n", r.styles.Warning.Render("!"), r.styles.Warning.Render(s))
}

// Muted writes a de-emphasized line to stdout.
func (r *Renderer) Muted(s string) {
	_, _ = fmt.Fprintln(r.out, r.styles.Muted.Render(s))
}

// Header writes a section header at the given level. Markdown mode
// emits a # heading; text mode styles the line instead.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "%s %s\n", strings.Repeat("#", level), text)
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	_, _ = fmt.Fprintln(r.out, style.Render(text))
}

// StatusLine writes a name prefixed with a status glyph and an
// optional muted detail. Recognized statuses are "success", "warn"
// and "error"; anything else renders as success.
func (r *Renderer) StatusLine(name, status, detail string) {
	icon := r.styles.StatusSuccess.String()
	switch status {
	case "warn":
		icon = r.styles.Warning.Render("!")
	case "error":
		icon = r.styles.StatusFailed.String()
	}
	line := fmt.Sprintf("%s %s", icon, name)
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	_, _ = fmt.Fprintln(r.out, line)
}

// JSON writes v to stdout as an indented JSON document.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
