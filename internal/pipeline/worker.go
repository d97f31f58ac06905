package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/deckgest/internal/deck"
	"github.com/dgallion1/deckgest/internal/parser"
	"github.com/dgallion1/deckgest/internal/present"
)

// Fetcher retrieves a web page as markdown.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (parser.Document, error)
}

// Publisher materializes a deck in the slide-authoring service.
type Publisher interface {
	Publish(ctx context.Context, title string, d deck.Deck) (present.Publication, error)
}

// Worker processes a single deck job.
type Worker struct {
	builder   *Builder
	fetcher   Fetcher
	publisher Publisher
	opts      parser.Options
	log       *slog.Logger
}

func NewWorker(builder *Builder, fetcher Fetcher, publisher Publisher, opts parser.Options, log *slog.Logger) *Worker {
	return &Worker{
		builder:   builder,
		fetcher:   fetcher,
		publisher: publisher,
		opts:      opts,
		log:       log,
	}
}

// Process runs convert, build and (optionally) publish for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID)

	// Phase 1: Convert
	job.SetStatus(StatusConverting, "converting")
	doc, err := w.convert(ctx, job)
	if err != nil {
		log.Error("convert failed", "error", err)
		job.Fail("converting", err)
		return
	}
	job.releaseFileData()
	job.SetTitle(doc.Title)
	job.SetContentHash(ContentHashHex([]byte(doc.Markdown)))
	log.Info("converted document", "title", doc.Title, "markdown_bytes", len(doc.Markdown))

	// Phase 2: Build
	job.SetStatus(StatusBuilding, "building")
	res, err := w.builder.Build(ctx, doc.Markdown)
	if err != nil {
		log.Error("build failed", "error", err)
		job.Fail("building", err)
		return
	}
	job.SetResult(res)

	if !job.Publish {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 3: Publish
	if len(res.Deck) == 0 {
		job.AddError("nothing to publish: deck is empty")
		job.SetStatus(StatusCompleted, "done")
		return
	}
	if w.publisher == nil {
		job.Fail("publishing", errors.New("publishing is not configured"))
		return
	}
	job.SetStatus(StatusPublishing, "publishing")
	pub, err := w.publisher.Publish(ctx, job.Snapshot().Title, res.Deck)
	if err != nil {
		log.Error("publish failed", "error", err)
		job.Fail("publishing", fmt.Errorf("publish: %w", err))
		return
	}
	job.SetPublication(pub)
	log.Info("deck published", "presentation_id", pub.PresentationID, "url", pub.URL)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) convert(ctx context.Context, job *Job) (parser.Document, error) {
	if job.SourceURL != "" {
		if w.fetcher == nil {
			return parser.Document{}, errors.New("url fetching is not configured")
		}
		return w.fetcher.Fetch(ctx, job.SourceURL)
	}

	conv, err := parser.ForFile(job.Filename, w.opts)
	if err != nil {
		return parser.Document{}, err
	}
	doc, err := conv.Convert(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		return parser.Document{}, fmt.Errorf("convert %s: %w", job.Filename, err)
	}
	return doc, nil
}
