package report

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips outer code fences so a memo pasted back through a
// chat surface renders instead of showing as a code block.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	} else if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// ValidateMarkdown checks the memo parses as Markdown. Goldmark is very
// permissive, so this is a sanity gate, not a linter.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
