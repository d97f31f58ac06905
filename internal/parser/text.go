package parser

import (
	"bufio"
	"io"
	"strings"
)

// TextConverter handles plain text files. Paragraphs are kept and separated
// by single blank lines; with no headings they all land in one section.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	if err := scanner.Err(); err != nil {
		return Document{}, err
	}

	return Document{
		Title:    titleFromFilename(filename, ".txt"),
		Markdown: strings.Join(paragraphs, "\n\n"),
	}, nil
}
