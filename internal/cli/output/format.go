package output

import (
	"fmt"
	"strings"
)

// FormatHeader renders a markdown heading line.
func FormatHeader(level int, text string) string {
	return fmt.Sprintf("%s %s", strings.Repeat("#", level), text)
}

// FormatKeyValue renders a markdown key/value bullet.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCodeBlock wraps code in a fenced block with a language tag.
func FormatCodeBlock(lang, code string) string {
	return fmt.Sprintf("```%s\n%s\n```", lang, strings.TrimRight(code, "\n"))
}
