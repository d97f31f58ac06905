package deck

import (
	"strings"
	"unicode/utf8"
)

// DefaultHeading names a section whose heading was never set.
const DefaultHeading = "Introduction"

// Section is a heading plus the cleaned body lines collected under it.
type Section struct {
	Heading string   `json:"heading"`
	Body    []string `json:"body"`
}

// Text joins the body lines the way they are presented to the summarizer.
func (s Section) Text() string {
	return strings.TrimSpace(strings.Join(s.Body, "\n"))
}

// Slide is the unit handed to the presentation collaborator.
type Slide struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Deck is an ordered list of slides; index 0 is shown first.
type Deck []Slide

// Headings returns the slide headings in presentation order.
func (d Deck) Headings() []string {
	out := make([]string, len(d))
	for i, s := range d {
		out[i] = s.Heading
	}
	return out
}

// Source tags which path produced a deck.
type Source string

const (
	SourceSummarizer Source = "summarizer"
	SourceFallback   Source = "fallback"
)

// Document rebuilds the markdown that both the count policy and the prompt
// builder measure: "## heading\n\nbody" blocks separated by blank lines.
func Document(sections []Section) string {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("## ")
		sb.WriteString(s.Heading)
		sb.WriteString("\n\n")
		sb.WriteString(s.Text())
	}
	return sb.String()
}

// DocumentLength is the character count of Document(sections), in runes.
// An emoji counts once here, where a UTF-16 length would count it twice.
func DocumentLength(sections []Section) int {
	return utf8.RuneCountInString(Document(sections))
}
