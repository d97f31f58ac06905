package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dgallion1/deckgest/internal/deck"
	"github.com/dgallion1/deckgest/internal/parser"
)

// Summarizer produces slides for a parsed document. Any error switches the
// build to the fallback aggregator.
type Summarizer interface {
	Summarize(ctx context.Context, sections []deck.Section, target int) ([]deck.Slide, error)
}

// Result is the outcome of one build. FallbackReason is set when the
// summarizer failed and the deck came from the fallback aggregator.
type Result struct {
	Deck           deck.Deck
	Source         deck.Source
	TargetCount    int
	Sections       []deck.Section
	FallbackReason error
}

// Builder runs parse, count, then summarize-or-fallback. It holds no
// per-build state; one Builder serves concurrent builds.
type Builder struct {
	policy     deck.Policy
	summarizer Summarizer
	log        *slog.Logger
}

func NewBuilder(policy deck.Policy, summarizer Summarizer, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{policy: policy, summarizer: summarizer, log: log}
}

// Policy returns the configuration the builder was created with.
func (b *Builder) Policy() deck.Policy { return b.policy }

// Build turns markdown into a deck of at most TargetCount slides. The only
// error it returns is *parser.ParseError.
func (b *Builder) Build(ctx context.Context, markdown string) (Result, error) {
	sections, err := parser.ParseSections(markdown, b.policy)
	if err != nil {
		return Result{}, err
	}

	res := Result{Sections: sections, Deck: deck.Deck{}, Source: deck.SourceFallback}
	if len(sections) == 0 {
		b.log.Info("no sections in document, returning empty deck")
		return res, nil
	}
	res.TargetCount = deck.TargetCount(sections, b.policy)

	var slides []deck.Slide
	if b.summarizer == nil {
		err = errors.New("no summarizer configured")
	} else {
		slides, err = b.summarizer.Summarize(ctx, sections, res.TargetCount)
	}
	if err == nil && len(slides) > 0 {
		if len(slides) > res.TargetCount {
			slides = slides[:res.TargetCount]
		}
		res.Deck = deck.Deck(slides)
		res.Source = deck.SourceSummarizer
	} else {
		if err == nil {
			err = errors.New("summarizer returned no slides")
		}
		res.Deck = deck.Fallback(sections, res.TargetCount, b.policy)
		res.FallbackReason = err
		b.log.Warn("using fallback deck", "reason", err, "sections", len(sections))
	}

	b.log.Info("deck built",
		"source", res.Source,
		"slides", len(res.Deck),
		"target", res.TargetCount,
		"sections", len(sections),
	)
	return res, nil
}
