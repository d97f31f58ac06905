package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/dgallion1/deckgest/internal/deck"
	"github.com/dgallion1/deckgest/internal/parser"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubSummarizer returns fixed slides or a fixed error and counts calls.
type stubSummarizer struct {
	slides []deck.Slide
	err    error
	calls  int
	target int
}

func (s *stubSummarizer) Summarize(_ context.Context, _ []deck.Section, target int) ([]deck.Slide, error) {
	s.calls++
	s.target = target
	return s.slides, s.err
}

var errUnavailable = errors.New("summarize: unavailable")

func TestBuildIntroScenarioFallsBack(t *testing.T) {
	sum := &stubSummarizer{err: errUnavailable}
	b := NewBuilder(deck.DefaultPolicy(), sum, testLogger())

	res, err := b.Build(context.Background(), "# Intro\nHello world")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Sections) != 1 || res.Sections[0].Heading != "Intro" {
		t.Fatalf("unexpected sections: %+v", res.Sections)
	}
	if res.TargetCount != 2 || sum.target != 2 {
		t.Fatalf("expected target 2, got %d (summarizer saw %d)", res.TargetCount, sum.target)
	}
	if res.Source != deck.SourceFallback {
		t.Fatalf("expected fallback source, got %s", res.Source)
	}
	if !errors.Is(res.FallbackReason, errUnavailable) {
		t.Fatalf("expected fallback reason to carry the summarizer error, got %v", res.FallbackReason)
	}
	want := deck.Deck{{Heading: "Intro", Body: deck.DefaultPlaceholderBody}}
	if len(res.Deck) != 1 || res.Deck[0] != want[0] {
		t.Fatalf("unexpected deck: %+v", res.Deck)
	}
}

func TestBuildUsesSummarizerSlides(t *testing.T) {
	sum := &stubSummarizer{slides: []deck.Slide{
		{Heading: "One", Body: "A. a\nB. b\nC. c"},
		{Heading: "Two", Body: "A. a\nB. b\nC. c"},
	}}
	b := NewBuilder(deck.DefaultPolicy(), sum, testLogger())

	res, err := b.Build(context.Background(), "## Real Section\nContent here")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Source != deck.SourceSummarizer || res.FallbackReason != nil {
		t.Fatalf("expected summarizer source, got %s (%v)", res.Source, res.FallbackReason)
	}
	if len(res.Deck) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(res.Deck))
	}
}

func TestBuildClampsOversizedSummary(t *testing.T) {
	var slides []deck.Slide
	for range 7 {
		slides = append(slides, deck.Slide{Heading: "S", Body: deck.DefaultPlaceholderBody})
	}
	b := NewBuilder(deck.DefaultPolicy(), &stubSummarizer{slides: slides}, testLogger())

	res, err := b.Build(context.Background(), "# Short\nbody")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Deck) != res.TargetCount {
		t.Fatalf("expected deck clamped to %d, got %d", res.TargetCount, len(res.Deck))
	}
}

func TestBuildEmptySummaryFallsBack(t *testing.T) {
	b := NewBuilder(deck.DefaultPolicy(), &stubSummarizer{}, testLogger())
	res, err := b.Build(context.Background(), "# T\nx")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Source != deck.SourceFallback || res.FallbackReason == nil {
		t.Fatalf("expected fallback with reason, got %s / %v", res.Source, res.FallbackReason)
	}
}

func TestBuildNilSummarizerFallsBack(t *testing.T) {
	b := NewBuilder(deck.DefaultPolicy(), nil, testLogger())
	res, err := b.Build(context.Background(), "# T\nx")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Source != deck.SourceFallback || len(res.Deck) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBuildDenylistScenario(t *testing.T) {
	b := NewBuilder(deck.DefaultPolicy(), &stubSummarizer{err: errUnavailable}, testLogger())
	res, err := b.Build(context.Background(), "## Menu\nSkip me\n## Real Section\nContent here")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := strings.Join(res.Deck.Headings(), ","); got != "Real Section" {
		t.Fatalf("expected only Real Section, got %q", got)
	}
	for _, s := range res.Sections {
		for _, line := range s.Body {
			if line == "Skip me" {
				t.Fatal("body under denied heading leaked into sections")
			}
		}
	}
}

func TestBuildEmptyInputSkipsSummarizer(t *testing.T) {
	sum := &stubSummarizer{err: errUnavailable}
	b := NewBuilder(deck.DefaultPolicy(), sum, testLogger())
	for _, md := range []string{"", "   \n\t\n"} {
		res, err := b.Build(context.Background(), md)
		if err != nil {
			t.Fatalf("Build(%q): %v", md, err)
		}
		if len(res.Deck) != 0 || res.Deck == nil {
			t.Fatalf("expected empty non-nil deck, got %#v", res.Deck)
		}
	}
	if sum.calls != 0 {
		t.Fatalf("expected no summarizer call for empty input, got %d", sum.calls)
	}
}

func TestBuildParseErrorIsFatal(t *testing.T) {
	b := NewBuilder(deck.DefaultPolicy(), &stubSummarizer{}, testLogger())
	_, err := b.Build(context.Background(), "bad \xff utf8")
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *parser.ParseError, got %v", err)
	}
}

func TestBuildNeverExceedsTarget(t *testing.T) {
	inputs := []string{
		"# Intro\nHello world",
		strings.Repeat("## Section\nSome body text that is long enough to count.\n", 40),
		strings.Repeat("## A\n"+strings.Repeat("word ", 300)+"\n", 30),
	}
	b := NewBuilder(deck.DefaultPolicy(), &stubSummarizer{err: errUnavailable}, testLogger())
	for i, md := range inputs {
		res, err := b.Build(context.Background(), md)
		if err != nil {
			t.Fatalf("input %d: %v", i, err)
		}
		sections, _ := parser.ParseSections(md, deck.DefaultPolicy())
		if len(res.Deck) > deck.TargetCount(sections, deck.DefaultPolicy()) {
			t.Errorf("input %d: deck of %d exceeds target %d", i, len(res.Deck), res.TargetCount)
		}
		for _, s := range res.Deck {
			if !deck.IsBulletBody(s.Body) {
				t.Errorf("input %d: slide %q has malformed body", i, s.Heading)
			}
		}
	}
}

func TestBuildWithAlternatePolicy(t *testing.T) {
	p := deck.DefaultPolicy()
	p.SmallCount = 1
	p.HeadingDenylist = []string{"intro"}
	b := NewBuilder(p, &stubSummarizer{err: errUnavailable}, testLogger())

	res, err := b.Build(context.Background(), "## Intro\nx\n## Body\ny\n## Tail\nz")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.TargetCount != 1 || len(res.Deck) != 1 || res.Deck[0].Heading != "Body" {
		t.Fatalf("unexpected result: target=%d deck=%v", res.TargetCount, res.Deck.Headings())
	}
}
