package summarize

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/deckgest/internal/deck"
)

// Config holds the per-call settings for a Summarizer.
type Config struct {
	Policy          deck.Policy
	MaxOutputTokens int
	Temperature     float32
	Timeout         time.Duration
}

// Summarizer makes one bounded generation call per document and turns the
// response into slides. It holds no per-call state and is safe for
// concurrent use.
type Summarizer struct {
	gen   Generator
	cfg   Config
	stats *LLMStats
	log   *slog.Logger
}

// NewSummarizer wraps gen. A nil gen is allowed: every call then fails with
// KindUnavailable.
func NewSummarizer(gen Generator, cfg Config, stats *LLMStats, log *slog.Logger) *Summarizer {
	if stats == nil {
		stats = NewLLMStats(time.Hour)
	}
	if log == nil {
		log = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Summarizer{gen: gen, cfg: cfg, stats: stats, log: log}
}

type generateResult struct {
	text string
	err  error
}

// Summarize asks the generator for target slides covering sections.
// Failures are always *SummarizationError; no partial result is returned.
func (s *Summarizer) Summarize(ctx context.Context, sections []deck.Section, target int) ([]deck.Slide, error) {
	if s.gen == nil {
		return nil, &SummarizationError{Kind: KindUnavailable, Err: errors.New("no generator configured")}
	}

	prompt := BuildPrompt(sections, target, s.cfg.Policy)
	s.log.Debug("summarize request",
		"provider", s.gen.Name(),
		"target", target,
		"prompt_tokens_est", EstimateTokens(prompt),
	)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan generateResult, 1)
	go func() {
		text, err := s.gen.Generate(callCtx, prompt, GenerateOptions{
			MaxOutputTokens: s.cfg.MaxOutputTokens,
			Temperature:     s.cfg.Temperature,
		})
		done <- generateResult{text: text, err: err}
	}()

	// A backend that ignores ctx is abandoned at the deadline; its late
	// result lands in the buffered channel and is dropped.
	var res generateResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}
	elapsed := time.Since(start).Milliseconds()

	slides, err := s.finish(ctx, callCtx, res, target)
	if err != nil {
		var se *SummarizationError
		errors.As(err, &se)
		s.stats.Record(elapsed, string(se.Kind))
		s.log.Warn("summarize failed", "kind", se.Kind, "duration_ms", elapsed, "error", se.Err)
		return nil, err
	}

	s.stats.Record(elapsed, OutcomeSummarized)
	s.log.Info("summarize complete", "slides", len(slides), "target", target, "duration_ms", elapsed)
	return slides, nil
}

func (s *Summarizer) finish(ctx, callCtx context.Context, res generateResult, target int) ([]deck.Slide, error) {
	if res.err != nil {
		return nil, &SummarizationError{Kind: classify(ctx, callCtx, res.err), Err: res.err}
	}
	if strings.TrimSpace(res.text) == "" {
		return nil, &SummarizationError{Kind: KindEmptyResponse, Err: errors.New("generator returned no text")}
	}
	slides, err := ParseResponse(res.text, target, s.cfg.Policy)
	if err != nil {
		return nil, &SummarizationError{Kind: KindMalformedResponse, Err: err}
	}
	return slides, nil
}

func classify(ctx, callCtx context.Context, err error) FailureKind {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindTransport
	}
}

// Stats exposes the rolling call statistics.
func (s *Summarizer) Stats() *LLMStats { return s.stats }

// Provider names the configured backend, or "none".
func (s *Summarizer) Provider() string {
	if s.gen == nil {
		return "none"
	}
	return s.gen.Name()
}

// Model names the configured backend model, or "" when there is none.
func (s *Summarizer) Model() string {
	if s.gen == nil {
		return ""
	}
	return s.gen.Model()
}
