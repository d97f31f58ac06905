package summarize

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	ollama "github.com/ollama/ollama/api"
)

// OllamaGenerator calls a local or remote Ollama server.
type OllamaGenerator struct {
	client     *ollama.Client
	httpClient *http.Client
	model      string
}

func NewOllamaGenerator(host, model string) (*OllamaGenerator, error) {
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	// Deadlines come from the caller's context.
	httpClient := &http.Client{}
	return &OllamaGenerator{
		client:     ollama.NewClient(u, httpClient),
		httpClient: httpClient,
		model:      model,
	}, nil
}

func (o *OllamaGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	stream := false
	req := &ollama.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": opts.Temperature,
		},
	}
	if opts.MaxOutputTokens > 0 {
		req.Options["num_predict"] = opts.MaxOutputTokens
	}

	var text strings.Builder
	err := o.client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		text.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}
	return text.String(), nil
}

func (o *OllamaGenerator) Name() string  { return "ollama" }
func (o *OllamaGenerator) Model() string { return o.model }

func (o *OllamaGenerator) Close() error {
	o.httpClient.CloseIdleConnections()
	return nil
}
