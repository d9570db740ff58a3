// Package output renders command results as styled terminal text,
// pipe-friendly markdown, or JSON. Commands construct one Renderer
// per invocation and branch on EffectiveMode for their format-specific
// rendering paths.
package output

// Mode selects how command output is rendered.
type Mode string

// OutputMode is an alias for Mode kept for call sites that read
// better with the longer name.
type OutputMode = Mode

const (
	// ModeAuto resolves to text on a TTY and markdown when piped.
	ModeAuto Mode = "auto"

	// ModeText renders styled terminal output.
	ModeText Mode = "text"

	// ModeMarkdown renders plain markdown with no escape codes.
	ModeMarkdown Mode = "markdown"

	// ModeJSON renders a single machine-readable JSON document.
	ModeJSON Mode = "json"
)

// Valid reports whether m is a recognized mode. The empty string is
// valid and treated as auto.
func (m Mode) Valid() bool {
	switch m {
	case "", ModeAuto, ModeText, ModeMarkdown, ModeJSON:
		return true
	}
	return false
}
