package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/deckgest/internal/deck"
)

// ParseError reports input the section parser refuses to handle.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse markdown: " + e.Reason
}

var (
	imageRe = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkRe  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

// ParseSections segments markdown into ordered sections.
//
// "## " lines open a section unless the heading is denied by the policy.
// Only the first "# " line of the document is treated as a heading; it
// names the section in progress. Every other non-blank line is body text
// with images removed and links reduced to their text.
func ParseSections(markdown string, p deck.Policy) ([]deck.Section, error) {
	if !utf8.ValidString(markdown) {
		return nil, &ParseError{Reason: "input is not valid UTF-8"}
	}
	if p.MaxDocumentBytes > 0 && len(markdown) > p.MaxDocumentBytes {
		return nil, &ParseError{Reason: fmt.Sprintf("input is %d bytes, limit is %d", len(markdown), p.MaxDocumentBytes)}
	}

	var (
		sections     []deck.Section
		heading      string
		body         []string
		sawTopLevel  bool
		skippingBody bool
	)

	flush := func() {
		if heading != "" || len(body) > 0 {
			h := heading
			if h == "" {
				h = deck.DefaultHeading
			}
			sections = append(sections, deck.Section{Heading: h, Body: body})
		}
		heading, body = "", nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		switch {
		case strings.HasPrefix(line, "## "):
			text := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if p.Denied(text) {
				if p.DropDeniedSectionBody {
					flush()
					skippingBody = true
				}
				continue
			}
			flush()
			heading = text
			skippingBody = false

		case strings.HasPrefix(line, "# ") && !sawTopLevel:
			heading = strings.TrimSpace(strings.TrimPrefix(line, "# "))
			sawTopLevel = true
			skippingBody = false

		case strings.TrimSpace(line) != "":
			if skippingBody {
				continue
			}
			if cleaned := cleanLine(line); cleaned != "" {
				body = append(body, cleaned)
			}
		}
	}
	flush()

	return sections, nil
}

func cleanLine(line string) string {
	line = imageRe.ReplaceAllString(strings.TrimSpace(line), "")
	line = linkRe.ReplaceAllString(line, "$1")
	return strings.TrimSpace(line)
}
