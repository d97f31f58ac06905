package summarize

import (
	"fmt"
	"strings"

	"github.com/dgallion1/deckgest/internal/deck"
)

// SlidePrompt is the instruction sent ahead of the document content. The
// single %d is the requested number of sections.
const SlidePrompt = `Summarize the document below into exactly %d slide sections.

Format every section like this:
## <heading>
A. <bullet>
B. <bullet>
C. <bullet>

Rules:
- Start each heading line with "## " and keep the heading under 50 characters
- Give each section exactly 3 bullets labeled "A.", "B." and "C."
- Make each bullet 80-90 characters long
- Include at least one relevant emoji in every bullet (e.g. 📝, ⚙️, 🔄)
- Keep the content engaging and faithful to the document
- Respond with ONLY the sections, no introduction or closing text

Document:

`

// BuildPrompt renders the sections back to markdown, cuts the result at
// PromptCharLimit characters and wraps it in SlidePrompt.
func BuildPrompt(sections []deck.Section, target int, p deck.Policy) string {
	content := truncateRunes(deck.Document(sections), p.PromptCharLimit, p.TruncationMarker)
	return fmt.Sprintf(SlidePrompt, target) + content
}

// truncateRunes keeps the first limit characters of s and appends marker
// when anything was cut. limit <= 0 disables truncation.
func truncateRunes(s string, limit int, marker string) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + marker
		}
		count++
	}
	return s
}

// EstimateTokens gives a rough token count from the word count. Only used
// for logging prompt size.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := int(float64(len(strings.Fields(text))) * 1.33)
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}
