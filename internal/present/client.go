package present

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/deckgest/internal/deck"
)

// DefaultThemeID is the theme applied to new presentations.
const DefaultThemeID = "a6bff6e5-3afc-4336-830b-fbc710081012"

const layoutTitleAndBody = "TITLE_AND_BODY_LAYOUT"

// Client talks to the slide-authoring service HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	shareBase  string
	themeID    string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, shareBase string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		shareBase: strings.TrimRight(shareBase, "/"),
		themeID:   DefaultThemeID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Publication identifies a published deck.
type Publication struct {
	PresentationID string `json:"presentation_id"`
	URL            string `json:"url"`
	Slides         int    `json:"slides"`
}

// Variant holds the IDs of a slide layout and its two text boxes.
type Variant struct {
	ID        string
	HeadingID string
	BodyID    string
}

// statusResponse is the error envelope the service returns with a 200.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Publish creates a presentation holding every slide of d in order and
// returns its share link. Any failed step aborts the publish.
func (c *Client) Publish(ctx context.Context, title string, d deck.Deck) (Publication, error) {
	if len(d) == 0 {
		return Publication{}, errors.New("publish: deck has no slides")
	}
	presentationID, err := c.CreatePresentation(ctx, title)
	if err != nil {
		return Publication{}, err
	}

	for i, slide := range d {
		slideID, err := c.AddSlide(ctx, presentationID, i)
		if err != nil {
			return Publication{}, fmt.Errorf("slide %d: %w", i, err)
		}
		variant, err := c.CreateVariant(ctx, slideID)
		if err != nil {
			return Publication{}, fmt.Errorf("slide %d: %w", i, err)
		}
		if err := c.UpdateSlide(ctx, presentationID, slideID, i, variant, slide); err != nil {
			return Publication{}, fmt.Errorf("slide %d: %w", i, err)
		}
	}

	shareURL, err := c.Share(ctx, presentationID)
	if err != nil {
		return Publication{}, err
	}
	return Publication{PresentationID: presentationID, URL: shareURL, Slides: len(d)}, nil
}

// CreatePresentation creates an empty presentation and returns its ID.
func (c *Client) CreatePresentation(ctx context.Context, title string) (string, error) {
	if title == "" {
		title = "Untitled Presentation"
	}
	req := map[string]any{
		"presentation_id":      uuid.NewString(),
		"presentation_title":   title,
		"create_first_slide":   true,
		"theme_id":             c.themeID,
		"default_color_set_id": 0,
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/create-new-presentation", req, &resp); err != nil {
		return "", fmt.Errorf("create presentation: %w", err)
	}
	if resp.ID == "" {
		return "", errors.New("create presentation: missing id in response")
	}
	return resp.ID, nil
}

// AddSlide appends a blank slide at order and returns its ID.
func (c *Client) AddSlide(ctx context.Context, presentationID string, order int) (string, error) {
	req := map[string]any{
		"slide_id":        uuid.NewString(),
		"presentation_id": presentationID,
		"product_type":    "PRESENTATION_CREATOR",
		"slide_order":     order,
		"color_set_id":    0,
	}
	var resp struct {
		SlideID string `json:"slide_id"`
		Slides  []struct {
			ID         string `json:"id"`
			SlideOrder int    `json:"slide_order"`
		} `json:"slides"`
	}
	if err := c.post(ctx, "/create-new-slide", req, &resp); err != nil {
		return "", fmt.Errorf("add slide: %w", err)
	}
	if resp.SlideID != "" {
		return resp.SlideID, nil
	}
	for _, s := range resp.Slides {
		if s.SlideOrder == order && s.ID != "" {
			return s.ID, nil
		}
	}
	return "", errors.New("add slide: no slide id in response")
}

// CreateVariant gives a slide a heading-plus-body layout.
func (c *Client) CreateVariant(ctx context.Context, slideID string) (Variant, error) {
	v := Variant{HeadingID: uuid.NewString(), BodyID: uuid.NewString()}
	req := map[string]any{
		"slide_id": slideID,
		"element_slide_variant": map[string]any{
			"type":     layoutTitleAndBody,
			"elements": elements(v, "# Placeholder Heading\n", "Placeholder body text.\n"),
		},
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/create-slide-variant-from-element-slide", req, &resp); err != nil {
		return Variant{}, fmt.Errorf("create variant: %w", err)
	}
	if resp.ID == "" {
		return Variant{}, errors.New("create variant: missing id in response")
	}
	v.ID = resp.ID
	return v, nil
}

// UpdateSlide writes the heading and body of slide into its variant.
func (c *Client) UpdateSlide(ctx context.Context, presentationID, slideID string, order int, v Variant, slide deck.Slide) error {
	if slide.Heading == "" || slide.Body == "" {
		return errors.New("update slide: heading and body are required")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	req := map[string]any{
		"id":                slideID,
		"presentation_id":   presentationID,
		"slide_order":       order,
		"color_set_id":      0,
		"active_variant_id": v.ID,
		"slide_status":      "DEFAULT",
		"created_at":        now,
		"variants": []map[string]any{{
			"id":       v.ID,
			"slide_id": slideID,
			"element_slide": map[string]any{
				"type":     layoutTitleAndBody,
				"elements": elements(v, "# "+slide.Heading+"\n", slide.Body),
			},
			"is_discarded": false,
			"created_at":   now,
		}},
	}
	if err := c.post(ctx, "/update-slide-entity", req, nil); err != nil {
		return fmt.Errorf("update slide: %w", err)
	}
	return nil
}

// Share creates (or refreshes) the public share token and returns the
// viewer URL.
func (c *Client) Share(ctx context.Context, presentationID string) (string, error) {
	var token string
	req := map[string]any{"presentation_id": presentationID}
	if err := c.post(ctx, "/upsert-presentation-share", req, &token); err != nil {
		return "", fmt.Errorf("share presentation: %w", err)
	}
	if token == "" {
		return "", errors.New("share presentation: empty share token")
	}
	return c.shareBase + "/" + token, nil
}

// elements lays out a heading text box with the body box below it.
func elements(v Variant, heading, body string) [][]map[string]any {
	return [][]map[string]any{
		{{
			"id":                v.HeadingID,
			"type":              "textbox",
			"subtype":           "heading",
			"preset_type":       "textbox_basic",
			"relative_position": map[string]any{"top": nil, "left": nil},
			"content":           heading,
		}},
		{{
			"id":          v.BodyID,
			"type":        "textbox",
			"subtype":     "mixed",
			"preset_type": "textbox_basic",
			"relative_position": map[string]any{
				"top":  map[string]any{"element_id": v.HeadingID, "delta": "auto"},
				"left": nil,
			},
			"content": body,
		}},
	}
}

// post sends a JSON request and decodes the JSON response into out (when
// non-nil). A 200 carrying {"status":"error"} is reported as an error.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 1024))
	}

	var st statusResponse
	if json.Unmarshal(respBody, &st) == nil && st.Status == "error" {
		if st.Message == "" {
			st.Message = "unknown error"
		}
		return fmt.Errorf("service error: %s", st.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
