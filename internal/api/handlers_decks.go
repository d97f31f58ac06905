package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/deckgest/internal/deck"
	"github.com/dgallion1/deckgest/internal/parser"
	"github.com/dgallion1/deckgest/internal/pipeline"
	"github.com/dgallion1/deckgest/internal/render"
)

type deckRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title"`
}

func (r deckRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Markdown, validation.Required),
	)
}

type renderRequest struct {
	Markdown string `json:"markdown"`
	Format   string `json:"format"`
}

func (r renderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Markdown, validation.Required),
		validation.Field(&r.Format, validation.In("html", "markdown", "md")),
	)
}

type deckResponse struct {
	Title          string      `json:"title"`
	Source         deck.Source `json:"source"`
	TargetCount    int         `json:"target_count"`
	SectionCount   int         `json:"section_count"`
	Slides         deck.Deck   `json:"slides"`
	FallbackReason string      `json:"fallback_reason,omitempty"`
}

func (s *Server) handleBuildDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	res, err := s.build(r, req.Markdown)
	if err != nil {
		respondError(w, err)
		return
	}

	out := deckResponse{
		Title:        req.Title,
		Source:       res.Source,
		TargetCount:  res.TargetCount,
		SectionCount: len(res.Sections),
		Slides:       res.Deck,
	}
	if out.Title == "" && len(res.Sections) > 0 {
		out.Title = res.Sections[0].Heading
	}
	if res.FallbackReason != nil {
		out.FallbackReason = res.FallbackReason.Error()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRenderDeck(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	res, err := s.build(r, req.Markdown)
	if err != nil {
		respondError(w, err)
		return
	}

	body, contentType, err := render.Render(res.Deck, render.Format(strings.ToLower(req.Format)))
	if err != nil {
		respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Deck-Source", string(res.Source))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// decodeJSON reads a size-limited JSON body into v and runs its validation.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v validation.Validatable) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return wrapValidationError(err, codeInvalidRequest)
	}
	if err := v.Validate(); err != nil {
		return wrapValidationError(err, codeInvalidRequest)
	}
	return nil
}

func (s *Server) build(r *http.Request, markdown string) (pipeline.Result, error) {
	res, err := s.orchestrator.Builder().Build(r.Context(), markdown)
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return res, wrapValidationError(err, codeInvalidDocument)
	}
	return res, err
}
