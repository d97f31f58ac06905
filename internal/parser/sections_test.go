package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/deckgest/internal/deck"
)

func parse(t *testing.T, md string) []deck.Section {
	t.Helper()
	sections, err := ParseSections(md, deck.DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sections
}

func headings(sections []deck.Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Heading
	}
	return out
}

func TestParseSections_TopLevelHeading(t *testing.T) {
	sections := parse(t, "# Intro\nHello world")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Heading != "Intro" {
		t.Errorf("expected heading %q, got %q", "Intro", sections[0].Heading)
	}
	if len(sections[0].Body) != 1 || sections[0].Body[0] != "Hello world" {
		t.Errorf("expected body [Hello world], got %v", sections[0].Body)
	}
}

func TestParseSections_DeniedHeadingDiscardsSection(t *testing.T) {
	sections := parse(t, "## Menu\nSkip me\n## Real Section\nContent here")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %v", headings(sections))
	}
	if sections[0].Heading != "Real Section" {
		t.Errorf("expected %q, got %q", "Real Section", sections[0].Heading)
	}
	if strings.Join(sections[0].Body, "\n") != "Content here" {
		t.Errorf("expected body %q, got %v", "Content here", sections[0].Body)
	}
}

func TestParseSections_DeniedHeadingKeepsEarlierContent(t *testing.T) {
	sections := parse(t, "# Title\nintro line\n## MENU\nnav a\nnav b\n## Next\nreal")
	got := headings(sections)
	want := []string{"Title", "Next"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if strings.Join(sections[0].Body, "\n") != "intro line" {
		t.Errorf("expected intro body, got %v", sections[0].Body)
	}
}

func TestParseSections_DeniedHeadingWithoutBodyDrop(t *testing.T) {
	p := deck.DefaultPolicy()
	p.DropDeniedSectionBody = false
	sections, err := ParseSections("## Menu\nSkip me\n## Real Section\nContent here", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := headings(sections)
	if len(got) != 2 || got[0] != deck.DefaultHeading || got[1] != "Real Section" {
		t.Fatalf("expected [Introduction Real Section], got %v", got)
	}
	if sections[0].Body[0] != "Skip me" {
		t.Errorf("expected orphaned line under Introduction, got %v", sections[0].Body)
	}
}

func TestParseSections_DeniedHeadingsNeverSurface(t *testing.T) {
	p := deck.DefaultPolicy()
	md := "## Menu\n## API Reference\nx\n## Using App Router\n## Features available in /app\n## 15.2.4\n## Keep\ny"
	for _, s := range parse(t, md) {
		if p.Denied(s.Heading) {
			t.Errorf("denied heading %q surfaced", s.Heading)
		}
	}
}

func TestParseSections_ImageAndLinkCleanup(t *testing.T) {
	sections := parse(t, "## Links\n![alt](url)\n[Click](http://x)")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	body := sections[0].Body
	if len(body) != 1 || body[0] != "Click" {
		t.Errorf("expected body [Click], got %q", body)
	}
}

func TestParseSections_InlineCleanup(t *testing.T) {
	sections := parse(t, "## S\nSee ![logo](a.png) the [docs](https://d) and [api](https://a) now")
	want := "See  the docs and api now"
	if sections[0].Body[0] != want {
		t.Errorf("expected %q, got %q", want, sections[0].Body[0])
	}
}

func TestParseSections_SecondTopLevelHeadingIsBody(t *testing.T) {
	sections := parse(t, "# First\nintro\n# Second\nmore")
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %v", headings(sections))
	}
	want := []string{"intro", "# Second", "more"}
	if strings.Join(sections[0].Body, "|") != strings.Join(want, "|") {
		t.Errorf("expected body %v, got %v", want, sections[0].Body)
	}
}

func TestParseSections_TopLevelAfterSectionRenamesIt(t *testing.T) {
	sections := parse(t, "## Alpha\none\n# Beta\ntwo")
	if len(sections) != 1 || sections[0].Heading != "Beta" {
		t.Fatalf("expected single section named Beta, got %v", headings(sections))
	}
}

func TestParseSections_DefaultHeading(t *testing.T) {
	sections := parse(t, "just text\n\n## Next\nmore")
	got := headings(sections)
	if len(got) != 2 || got[0] != deck.DefaultHeading || got[1] != "Next" {
		t.Errorf("expected [Introduction Next], got %v", got)
	}
}

func TestParseSections_EmptySectionsDropped(t *testing.T) {
	sections := parse(t, "## \n## Real\ntext")
	got := headings(sections)
	if len(got) != 1 || got[0] != "Real" {
		t.Errorf("expected [Real], got %v", got)
	}
}

func TestParseSections_HeadingOnlySectionKept(t *testing.T) {
	sections := parse(t, "## Alone\n## Other\nbody")
	got := headings(sections)
	if len(got) != 2 || got[0] != "Alone" {
		t.Fatalf("expected [Alone Other], got %v", got)
	}
	if len(sections[0].Body) != 0 {
		t.Errorf("expected empty body, got %v", sections[0].Body)
	}
}

func TestParseSections_EmptyAndWhitespaceInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		if got := parse(t, in); len(got) != 0 {
			t.Errorf("input %q: expected no sections, got %d", in, len(got))
		}
	}
}

func TestParseSections_CRLF(t *testing.T) {
	sections := parse(t, "# Title\r\nline one\r\n## Two\r\nline two\r\n")
	got := headings(sections)
	if len(got) != 2 || got[0] != "Title" || got[1] != "Two" {
		t.Fatalf("expected [Title Two], got %q", got)
	}
	if sections[1].Body[0] != "line two" {
		t.Errorf("expected trimmed body, got %q", sections[1].Body[0])
	}
}

func TestParseSections_InvalidUTF8(t *testing.T) {
	_, err := ParseSections("## ok\n\xff\xfe", deck.DefaultPolicy())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseSections_MaxDocumentBytes(t *testing.T) {
	p := deck.DefaultPolicy()
	p.MaxDocumentBytes = 10
	_, err := ParseSections(strings.Repeat("a", 11), p)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestParseSections_ReparseReconstructedDocument(t *testing.T) {
	md := "# Guide\nWelcome [home](/)\n## Setup\n![img](x.png)\nInstall it\n## Menu\nnav\n## Usage\nRun it\n"
	first := parse(t, md)
	second := parse(t, deck.Document(first))
	if strings.Join(headings(first), "|") != strings.Join(headings(second), "|") {
		t.Errorf("headings changed on reparse: %v vs %v", headings(first), headings(second))
	}
}
