// Package render turns a deck into markdown or HTML for preview.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/dgallion1/deckgest/internal/deck"
)

// Format names an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Raw HTML in slide text is omitted, never passed through.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Markdown renders each slide as a "## heading" block followed by its body.
func Markdown(d deck.Deck) string {
	blocks := make([]string, 0, len(d))
	for _, s := range d {
		blocks = append(blocks, slideMarkdown(s))
	}
	return strings.Join(blocks, "\n\n")
}

// HTML renders each slide into its own <section class="slide"> element.
// Bullet lines become separate paragraphs.
func HTML(d deck.Deck) (string, error) {
	var out bytes.Buffer
	for i, s := range d {
		fmt.Fprintf(&out, "<section class=\"slide\" data-index=\"%d\">\n", i)
		if err := engine.Convert([]byte(slideMarkdown(s)), &out); err != nil {
			return "", fmt.Errorf("render slide %d: %w", i, err)
		}
		out.WriteString("</section>\n")
	}
	return out.String(), nil
}

// Render dispatches on format.
func Render(d deck.Deck, format Format) (string, string, error) {
	switch format {
	case FormatMarkdown, "md", "":
		return Markdown(d), "text/markdown; charset=utf-8", nil
	case FormatHTML:
		body, err := HTML(d)
		return body, "text/html; charset=utf-8", err
	default:
		return "", "", fmt.Errorf("unsupported format %q", format)
	}
}

func slideMarkdown(s deck.Slide) string {
	lines := strings.Split(strings.TrimSpace(s.Body), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return "## " + s.Heading + "\n\n" + strings.Join(lines, "\n\n")
}
