package answerit

import (
	"fmt"
	"strings"
)

// contextSeparator delimits chunk texts inside the prompt.
const contextSeparator = "\n---\n"

// buildPrompt assembles the grounding prompt for a single question.
func buildPrompt(contexts []string, question string) string {
	return fmt.Sprintf("Use the following context to answer the question:\n%s\n\nQ: %s\nA:",
		strings.Join(contexts, contextSeparator), question)
}
