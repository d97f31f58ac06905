package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// HTMLConverter handles HTML files and fetched web pages. Headings become
// markdown headings (h1 as "# ", everything deeper as "## "), and content
// blocks keep their links and images in markdown syntax so the section
// parser cleans them the same way it cleans native markdown.
type HTMLConverter struct{}

func (c *HTMLConverter) Convert(r io.Reader, filename string) (Document, error) {
	doc, err := HTMLToMarkdown(r)
	if err != nil {
		return Document{}, err
	}
	if doc.Title == "" {
		doc.Title = titleFromFilename(filename, ".html", ".htm")
	}
	return doc, nil
}

// HTMLToMarkdown converts an HTML page into markdown. The page <title>, if
// present, becomes the document title.
func HTMLToMarkdown(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}

	var blocks []string
	emit := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			blocks = append(blocks, s)
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			// Loose text outside any content block, e.g. directly in a <div>.
			emit(collapseSpace(n.Data))
			return
		}
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				text := collapseSpace(textContent(n))
				if text == "" {
					return
				}
				if level == 1 {
					emit("# " + text)
				} else {
					emit("## " + text)
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "noscript", "template":
				return
			case "p", "td", "blockquote", "figcaption", "pre":
				emit(inlineMarkdown(n))
				return
			case "li":
				if text := inlineMarkdown(n); text != "" {
					emit("- " + text)
				}
				return
			case "img":
				emit(imageMarkdown(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	walk(body)

	var title string
	if t := findElement(root, "title"); t != nil {
		title = collapseSpace(textContent(t))
	}

	return Document{Title: title, Markdown: strings.Join(blocks, "\n\n")}, nil
}

// inlineMarkdown renders a block's inline content on a single line.
func inlineMarkdown(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			sb.WriteString(n.Data)
			return
		case n.Type != html.ElementNode:
		case n.Data == "script" || n.Data == "style":
			return
		case n.Data == "img":
			sb.WriteString(imageMarkdown(n))
			return
		case n.Data == "br":
			sb.WriteString(" ")
			return
		case n.Data == "a":
			text := collapseSpace(textContent(n))
			href := attr(n, "href")
			switch {
			case text == "":
			case href == "" || strings.HasPrefix(href, "#"):
				sb.WriteString(text)
			default:
				fmt.Fprintf(&sb, "[%s](%s)", text, href)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(sb.String())
}

func imageMarkdown(n *html.Node) string {
	src := attr(n, "src")
	if src == "" {
		return ""
	}
	return fmt.Sprintf("![%s](%s)", attr(n, "alt"), src)
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
