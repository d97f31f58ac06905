package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/deckgest/internal/parser"
	"github.com/dgallion1/deckgest/internal/pipeline"
	"github.com/dgallion1/deckgest/internal/source"
)

type urlRequest struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Publish bool   `json:"publish"`
}

func (r urlRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required, validation.By(func(v any) error {
			_, err := source.ValidateURL(v.(string))
			return err
		})),
	)
}

func (s *Server) handleSubmitFile(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with 1MB of headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, wrapValidationError(fmt.Errorf("invalid multipart form: %w", err), codeInvalidRequest))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, wrapValidationError(fmt.Errorf("file is required: %w", err), codeInvalidRequest))
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		respondError(w, wrapValidationError(fmt.Errorf("unsupported file type: %s", filepath.Ext(filename)), codeInvalidRequest))
		return
	}

	publish, err := parsePublish(r.FormValue("publish"))
	if err != nil {
		respondError(w, err)
		return
	}
	if err := s.checkPublish(publish); err != nil {
		respondError(w, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	job := pipeline.NewJob()
	job.Filename = filename
	job.Title = strings.TrimSpace(r.FormValue("title"))
	job.Publish = publish
	job.SetFileData(data)

	s.submit(w, job)
}

func (s *Server) handleSubmitURL(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := s.checkPublish(req.Publish); err != nil {
		respondError(w, err)
		return
	}

	job := pipeline.NewJob()
	job.SourceURL = req.URL
	job.Title = strings.TrimSpace(req.Title)
	job.Publish = req.Publish

	s.submit(w, job)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) submit(w http.ResponseWriter, job *pipeline.Job) {
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": "/api/jobs/" + job.ID,
	})
}

func (s *Server) checkPublish(publish bool) error {
	if publish && !s.orchestrator.PublishEnabled() {
		return wrapValidationError(errors.New("publishing is not configured"), codePublishDisabled)
	}
	return nil
}

func parsePublish(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, wrapValidationError(fmt.Errorf("invalid publish flag %q", v), codeInvalidRequest)
	}
	return b, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
