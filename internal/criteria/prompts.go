package criteria

import (
	"strings"
)

const systemPrompt = `You are an agile business analyst. Given a user story, write clear, testable acceptance criteria. Respond with a plain numbered list, one criterion per line, no preamble.`

func buildPrompt(story StoryInput) string {
	var b strings.Builder
	b.WriteString("Story: ")
	b.WriteString(story.Title)
	b.WriteString("\n")
	if story.Description != "" {
		b.WriteString("Description: ")
		b.WriteString(story.Description)
		b.WriteString("\n")
	}
	if len(story.RequiredSkills) > 0 {
		b.WriteString("Required skills: ")
		b.WriteString(strings.Join(story.RequiredSkills, ", "))
		b.WriteString("\n")
	}
	if story.Priority != "" {
		b.WriteString("Priority: ")
		b.WriteString(story.Priority)
		b.WriteString("\n")
	}
	b.WriteString("\nWrite 3 to 6 acceptance criteria for this story.")
	return b.String()
}

// ParseCriteria extracts criteria lines from a completion, stripping
// list markers ("1.", "-", "*") and blank lines.
func ParseCriteria(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "-*• \t")
		// Strip leading "N." or "N)" numbering
		if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 && isDigits(line[:i]) {
			line = strings.TrimSpace(line[i+1:])
		}
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
