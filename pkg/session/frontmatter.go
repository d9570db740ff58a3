package session

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-labs/journalint/pkg/classify"
	"github.com/inkwell-labs/journalint/pkg/lint"
)

// overrides are the per-document settings a frontmatter block may
// carry. Journal frontmatter holds arbitrary user fields (title,
// tags, dates), so unknown keys are left alone rather than rejected.
type overrides struct {
	Structure string `yaml:"structure"`
	Lint      struct {
		Disabled []string `yaml:"disabled"`
	} `yaml:"lint"`
}

// parseOverrides extracts validation overrides from the document's
// frontmatter block, if any. Malformed YAML degrades to one
// engine-attributed warning and every override stays at its zero
// value.
func parseOverrides(input string, spans *classify.Result) (overrides, *lint.Diagnostic) {
	var ov overrides
	body, ok := frontmatterBody(input, spans)
	if !ok {
		return ov, nil
	}
	if err := yaml.Unmarshal([]byte(body), &ov); err != nil {
		d := engineIssue(fmt.Sprintf("frontmatter: invalid YAML: %v", err))
		return overrides{}, &d
	}
	return ov, nil
}

// frontmatterBody returns the YAML between the frontmatter fences.
// The classifier's frontmatter span includes the fence lines, so both
// are stripped; an unterminated block has no closing fence to strip.
func frontmatterBody(input string, spans *classify.Result) (string, bool) {
	var block string
	found := false
	for _, sp := range spans.Spans() {
		if sp.Category == classify.CategoryFrontmatter {
			block = input[sp.Start:sp.End]
			found = true
			break
		}
	}
	if !found {
		return "", false
	}

	lines := strings.Split(block, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}
	for len(lines) > 0 {
		last := strings.TrimRight(lines[len(lines)-1], " \t\r")
		if last == "" {
			lines = lines[:len(lines)-1]
			continue
		}
		if last == "---" || last == "..." {
			lines = lines[:len(lines)-1]
		}
		break
	}
	return strings.Join(lines, "\n"), true
}
