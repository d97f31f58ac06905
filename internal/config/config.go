package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dgallion1/deckgest/internal/deck"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Text generation backend
	LLMProvider     string
	LLMModel        string
	GeminiAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	OllamaHost      string
	StaticResponse  string

	// Summarizer call
	SummarizeTimeout time.Duration
	MaxOutputTokens  int
	Temperature      float32

	// Deck building
	Policy deck.Policy

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// URL source
	FetchTimeout  time.Duration
	MaxFetchBytes int64
	// FetchAllowPrivate lets URL jobs reach loopback, private and link-local
	// addresses.
	FetchAllowPrivate bool

	// Presentation publisher; disabled when PresenterURL is empty.
	PresenterURL       string
	PresenterAPIKey    string
	PresenterShareBase string

	// PDF
	PDFFallbackPdftotext bool
}

var providers = []any{"gemini", "google", "openai", "anthropic", "claude", "ollama", "static", "none"}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DECKGEST_API_KEY"),

		LLMProvider:     strings.ToLower(envOr("LLM_PROVIDER", "gemini")),
		LLMModel:        os.Getenv("LLM_MODEL"),
		GeminiAPIKey:    envOr("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OllamaHost:      envOr("OLLAMA_HOST", "http://localhost:11434"),
		StaticResponse:  unescapeNewlines(os.Getenv("STATIC_RESPONSE")),

		SummarizeTimeout: envDuration("SUMMARIZE_TIMEOUT", 60*time.Second),
		MaxOutputTokens:  envInt("MAX_OUTPUT_TOKENS", 1500),
		Temperature:      envFloat32("TEMPERATURE", 0.7),

		Policy: loadPolicy(),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		FetchTimeout:  envDuration("FETCH_TIMEOUT", 30*time.Second),
		MaxFetchBytes: envInt64("MAX_FETCH_BYTES", 10485760), // 10MB

		FetchAllowPrivate: envBool("FETCH_ALLOW_PRIVATE", false),

		PresenterURL:       strings.TrimRight(os.Getenv("PRESENTER_URL"), "/"),
		PresenterAPIKey:    os.Getenv("PRESENTER_API_KEY"),
		PresenterShareBase: envOr("PRESENTER_SHARE_BASE", "https://app.getalai.com/view"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.SummarizeTimeout <= 0 {
		cfg.SummarizeTimeout = 60 * time.Second
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 1500
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxFetchBytes <= 0 {
		cfg.MaxFetchBytes = 10485760
	}

	return cfg
}

// loadPolicy overlays env overrides on deck.DefaultPolicy. Invalid numbers
// keep the default; Validate catches inconsistent combinations.
func loadPolicy() deck.Policy {
	p := deck.DefaultPolicy()
	if v := os.Getenv("HEADING_DENYLIST"); v != "" {
		p.HeadingDenylist = splitList(v)
	}
	p.DropDeniedSectionBody = envBool("DROP_DENIED_SECTION_BODY", p.DropDeniedSectionBody)
	p.SmallThreshold = envInt("SMALL_DOC_CHARS", p.SmallThreshold)
	p.LargeThreshold = envInt("LARGE_DOC_CHARS", p.LargeThreshold)
	p.SmallCount = envInt("SLIDES_SMALL", p.SmallCount)
	p.MediumCount = envInt("SLIDES_MEDIUM", p.MediumCount)
	p.LargeCount = envInt("SLIDES_LARGE", p.LargeCount)
	p.PromptCharLimit = envInt("PROMPT_CHAR_LIMIT", p.PromptCharLimit)
	if v := os.Getenv("PLACEHOLDER_BODY"); v != "" {
		p.PlaceholderBody = unescapeNewlines(v)
	}
	p.MaxDocumentBytes = envInt("MAX_DOCUMENT_BYTES", p.MaxDocumentBytes)
	return p
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIKey, validation.Required.Error("DECKGEST_API_KEY is required")),
		validation.Field(&c.LLMProvider, validation.Required, validation.In(providers...)),
		validation.Field(&c.GeminiAPIKey, validation.When(c.usesProvider("gemini", "google"),
			validation.Required.Error("GEMINI_API_KEY or GOOGLE_API_KEY is required for the gemini provider"))),
		validation.Field(&c.OpenAIAPIKey, validation.When(c.usesProvider("openai") && c.OpenAIBaseURL == "",
			validation.Required.Error("OPENAI_API_KEY is required for the openai provider"))),
		validation.Field(&c.AnthropicAPIKey, validation.When(c.usesProvider("anthropic", "claude"),
			validation.Required.Error("ANTHROPIC_API_KEY is required for the anthropic provider"))),
		validation.Field(&c.StaticResponse, validation.When(c.usesProvider("static"),
			validation.Required.Error("STATIC_RESPONSE is required for the static provider"))),
		validation.Field(&c.Temperature, validation.Min(0.0), validation.Max(2.0)),
		validation.Field(&c.PresenterURL, validation.By(absoluteURL)),
		validation.Field(&c.PresenterAPIKey, validation.When(c.PresenterURL != "",
			validation.Required.Error("PRESENTER_API_KEY is required when PRESENTER_URL is set"))),
		validation.Field(&c.Policy),
	)
}

// LLMAPIKey returns the credential for the configured provider.
func (c Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case "gemini", "google":
		return c.GeminiAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic", "claude":
		return c.AnthropicAPIKey
	}
	return ""
}

// LLMBaseURL returns the endpoint override for the configured provider.
func (c Config) LLMBaseURL() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIBaseURL
	case "ollama":
		return c.OllamaHost
	}
	return ""
}

// PublishEnabled reports whether decks can be published remotely.
func (c Config) PublishEnabled() bool {
	return c.PresenterURL != ""
}

func (c Config) usesProvider(names ...string) bool {
	for _, n := range names {
		if c.LLMProvider == n {
			return true
		}
	}
	return false
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// unescapeNewlines lets single-line env values carry "\n" line breaks.
func unescapeNewlines(v string) string {
	return strings.ReplaceAll(v, `\n`, "\n")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat32(key string, fallback float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
