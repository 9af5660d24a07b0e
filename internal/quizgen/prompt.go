package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a teacher writing multiple choice quizzes.

Rules:
- Questions should be educational and appropriately challenging.
- Each question has exactly 4 answer options with only one correct answer.
- Distractors should be plausible, not obviously wrong.
- Plain text only. Use $...$ only where a formula cannot be written otherwise.
- Reply with the JSON object alone, with no additional text or formatting.`

// buildUserMessage constructs the user message for a topic and count.
func buildUserMessage(topic string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a quiz with exactly %d multiple choice questions about: %s\n\n", count, strings.TrimSpace(topic))
	b.WriteString("Each question should have 4 answer options with only one correct answer.")
	return b.String()
}
