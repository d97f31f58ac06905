package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
)

// MarkdownConverter passes markdown through, lifting YAML front matter out
// of the body so it never reaches a slide.
type MarkdownConverter struct{}

type frontMatter struct {
	Title string `yaml:"title"`
}

func (c *MarkdownConverter) Convert(r io.Reader, filename string) (Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &meta)
	if err != nil {
		return Document{}, fmt.Errorf("parse front matter: %w", err)
	}

	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = titleFromFilename(filename, ".md", ".markdown")
	}
	return Document{Title: title, Markdown: string(body)}, nil
}
