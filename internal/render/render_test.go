package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/deckgest/internal/deck"
)

var sample = deck.Deck{
	{Heading: "Getting Started", Body: "A. Install 📦\nB. Configure 🔑\nC. Run ✅"},
	{Heading: "Next Steps", Body: deck.DefaultPlaceholderBody},
}

func TestMarkdown(t *testing.T) {
	got := Markdown(sample)
	want := "## Getting Started\n\nA. Install 📦\n\nB. Configure 🔑\n\nC. Run ✅\n\n" +
		"## Next Steps\n\nA. Summary point 1 📝\n\nB. Summary point 2 ⚙️\n\nC. Summary point 3 🔄"
	if got != want {
		t.Fatalf("unexpected markdown:\n%s", got)
	}
}

func TestMarkdownEmptyDeck(t *testing.T) {
	if got := Markdown(deck.Deck{}); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestHTML(t *testing.T) {
	got, err := HTML(sample)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Count(got, `<section class="slide"`) != 2 {
		t.Fatalf("expected two slide sections:\n%s", got)
	}
	if !strings.Contains(got, `<h2 id="getting-started">Getting Started</h2>`) {
		t.Errorf("heading not rendered:\n%s", got)
	}
	for _, p := range []string{"<p>A. Install 📦</p>", "<p>B. Configure 🔑</p>", "<p>C. Run ✅</p>"} {
		if !strings.Contains(got, p) {
			t.Errorf("missing paragraph %s in:\n%s", p, got)
		}
	}
}

func TestHTMLOmitsRawHTML(t *testing.T) {
	d := deck.Deck{{Heading: "XSS", Body: "<script>alert(1)</script>"}}
	got, err := HTML(d)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw html passed through:\n%s", got)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		format   Format
		wantType string
		wantErr  bool
	}{
		{FormatMarkdown, "text/markdown; charset=utf-8", false},
		{"", "text/markdown; charset=utf-8", false},
		{FormatHTML, "text/html; charset=utf-8", false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			_, ct, err := Render(sample, tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if ct != tt.wantType {
				t.Fatalf("content type = %q, want %q", ct, tt.wantType)
			}
		})
	}
}
