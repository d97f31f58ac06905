package summarize

import (
	"errors"
	"regexp"
	"strings"

	"github.com/dgallion1/deckgest/internal/deck"
)

// ErrNoSections means a response contained no chunk with both a heading
// and a body.
var ErrNoSections = errors.New("response has no usable sections")

const sectionMarker = "## "

// Models often wrap markdown output in a fenced block.
var codeFenceRe = regexp.MustCompile("(?s)^```(?:markdown|md)?\\s*(.*?)\\s*```$")

// ParseResponse turns generated text into at most target slides. Bodies are
// the first three bullet lines of a section, or the placeholder body when a
// section has fewer.
func ParseResponse(text string, target int, p deck.Policy) ([]deck.Slide, error) {
	text = stripCodeFence(strings.TrimSpace(text))

	// Text before the first marker is a chunk like any other; a one-line
	// preamble has no body and is skipped.
	var slides []deck.Slide
	for _, chunk := range strings.Split(text, sectionMarker) {
		heading, rest := splitHeading(chunk)
		if heading == "" || strings.TrimSpace(rest) == "" {
			continue
		}
		slides = append(slides, deck.Slide{
			Heading: heading,
			Body:    slideBody(rest, p.PlaceholderBody),
		})
	}

	if len(slides) == 0 {
		return nil, ErrNoSections
	}
	if target > 0 && len(slides) > target {
		slides = slides[:target]
	}
	return slides, nil
}

// splitHeading returns the first non-blank line of chunk and everything after it.
func splitHeading(chunk string) (string, string) {
	lines := strings.Split(chunk, "\n")
	for i, line := range lines {
		if h := strings.TrimSpace(line); h != "" {
			return h, strings.Join(lines[i+1:], "\n")
		}
	}
	return "", ""
}

func slideBody(rest, placeholder string) string {
	bullets := deck.BulletLines(rest)
	if len(bullets) < deck.BulletCount {
		return placeholder
	}
	return strings.Join(bullets[:deck.BulletCount], "\n")
}

func stripCodeFence(s string) string {
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
