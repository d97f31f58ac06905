package summarize

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/deckgest/internal/deck"
)

const wellFormed = `## Getting Started
A. Install the CLI with one command and verify the version before anything else 📦
B. Configure credentials once so every later command picks them up automatically 🔑
C. Run the sample project to confirm the toolchain works end to end on your machine ✅

## Deploying
A. Build an image from the project root and tag it with the current commit hash 🐳
B. Push the image to the registry your cluster pulls from during each rollout 🚀
C. Watch the rollout status and roll back quickly if the health checks start failing 🔄`

func TestParseResponseWellFormed(t *testing.T) {
	slides, err := ParseResponse(wellFormed, 5, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	if slides[0].Heading != "Getting Started" || slides[1].Heading != "Deploying" {
		t.Fatalf("unexpected headings: %v", deck.Deck(slides).Headings())
	}
	for _, s := range slides {
		if !deck.IsBulletBody(s.Body) {
			t.Errorf("slide %q body is not three bullets:\n%s", s.Heading, s.Body)
		}
	}
}

func TestParseResponseTruncatesToTarget(t *testing.T) {
	slides, err := ParseResponse(wellFormed, 1, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(slides) != 1 || slides[0].Heading != "Getting Started" {
		t.Fatalf("expected only the first slide, got %v", deck.Deck(slides).Headings())
	}
}

func TestParseResponseIgnoresPreamble(t *testing.T) {
	text := "Here is your summary:\n\n" + wellFormed
	slides, err := ParseResponse(text, 5, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(slides) != 2 || slides[0].Heading != "Getting Started" {
		t.Fatalf("preamble leaked into slides: %v", deck.Deck(slides).Headings())
	}
}

func TestParseResponseWithoutMarker(t *testing.T) {
	slides, err := ParseResponse("Getting Started\nA. one\nB. two\nC. three", 2, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("expected 1 slide, got %d", len(slides))
	}
	if slides[0].Heading != "Getting Started" || slides[0].Body != "A. one\nB. two\nC. three" {
		t.Errorf("unexpected slide: %+v", slides[0])
	}
}

func TestParseResponseStripsCodeFence(t *testing.T) {
	text := "```markdown\n" + wellFormed + "\n```"
	slides, err := ParseResponse(text, 5, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	if strings.Contains(slides[1].Body, "```") {
		t.Fatalf("fence leaked into body: %q", slides[1].Body)
	}
}

func TestParseResponseBodyRules(t *testing.T) {
	p := deck.DefaultPolicy()
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "too few bullets gets placeholder",
			text: "## Short\nA. only one bullet here\nsome prose",
			want: p.PlaceholderBody,
		},
		{
			name: "prose only gets placeholder",
			text: "## Prose\nThis section has no labeled bullets at all.",
			want: p.PlaceholderBody,
		},
		{
			name: "extra bullets keep first three",
			text: "## Many\nA. one\nB. two\nC. three\nA. four",
			want: "A. one\nB. two\nC. three",
		},
		{
			name: "indented bullets are trimmed",
			text: "## Indented\n  A. one\n\tB. two\n   C. three  ",
			want: "A. one\nB. two\nC. three",
		},
		{
			name: "label without a space is not a bullet",
			text: "## Tight\nA.one\nB. two\nC. three",
			want: p.PlaceholderBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slides, err := ParseResponse(tt.text, 5, p)
			if err != nil {
				t.Fatalf("ParseResponse: %v", err)
			}
			if len(slides) != 1 {
				t.Fatalf("expected 1 slide, got %d", len(slides))
			}
			if slides[0].Body != tt.want {
				t.Fatalf("body = %q, want %q", slides[0].Body, tt.want)
			}
		})
	}
}

func TestParseResponseSkipsIncompleteSections(t *testing.T) {
	text := "## Heading Only\n\n## \nA. orphan body\n## Kept\nA. x\nB. y\nC. z"
	slides, err := ParseResponse(text, 5, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(slides) != 1 || slides[0].Heading != "Kept" {
		t.Fatalf("expected only Kept, got %v", deck.Deck(slides).Headings())
	}
}

func TestParseResponseMalformed(t *testing.T) {
	for _, text := range []string{
		"I could not summarize this document.",
		"## \n\n## ",
		"## Heading without body",
	} {
		if _, err := ParseResponse(text, 5, deck.DefaultPolicy()); !errors.Is(err, ErrNoSections) {
			t.Errorf("ParseResponse(%q) err = %v, want ErrNoSections", text, err)
		}
	}
}
