package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/deckgest/internal/parser"
)

// ErrTooLarge is returned when a page exceeds the configured size limit.
var ErrTooLarge = errors.New("page exceeds size limit")

// ErrPrivateHost is returned when a fetcher that denies private hosts is
// asked to dial one.
var ErrPrivateHost = errors.New("host resolves to a private address")

const userAgent = "deckgest/1.0 (+https://github.com/dgallion1/deckgest)"

// Fetcher downloads a web page and converts it to markdown.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// DenyPrivateHosts makes f refuse loopback, private, link-local and
// unspecified addresses. The check runs on the dialed IP, so DNS answers and
// redirects are covered.
func (f *Fetcher) DenyPrivateHosts() *Fetcher {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: denyPrivate}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	f.httpClient.Transport = transport
	return f
}

func denyPrivate(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || isPrivateIP(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateHost, host)
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified()
}

// Fetch retrieves rawURL. HTML is converted to markdown; markdown and plain
// text pass through their converters.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (parser.Document, error) {
	u, err := ValidateURL(rawURL)
	if err != nil {
		return parser.Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return parser.Document{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/markdown,text/plain;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return parser.Document{}, fmt.Errorf("fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parser.Document{}, fmt.Errorf("fetch %s: status %d", u.Redacted(), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return parser.Document{}, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return parser.Document{}, fmt.Errorf("fetch %s: %w (%d bytes)", u.Redacted(), ErrTooLarge, f.maxBytes)
	}

	doc, err := convert(resp.Header.Get("Content-Type"), body, pageName(u))
	if err != nil {
		return parser.Document{}, fmt.Errorf("convert %s: %w", u.Redacted(), err)
	}
	if doc.Title == "" {
		doc.Title = u.Host
	}
	return doc, nil
}

func convert(contentType string, body []byte, name string) (parser.Document, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = http.DetectContentType(body)
		mediaType, _, _ = mime.ParseMediaType(mediaType)
	}

	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return parser.HTMLToMarkdown(bytes.NewReader(body))
	case "text/markdown", "text/x-markdown":
		return (&parser.MarkdownConverter{}).Convert(bytes.NewReader(body), name)
	case "text/plain":
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown") {
			return (&parser.MarkdownConverter{}).Convert(bytes.NewReader(body), name)
		}
		return (&parser.TextConverter{}).Convert(bytes.NewReader(body), name)
	default:
		return parser.Document{}, fmt.Errorf("unsupported content type %q", mediaType)
	}
}

// ValidateURL accepts only absolute http and https URLs.
func ValidateURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid url %q: scheme must be http or https", rawURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid url %q: missing host", rawURL)
	}
	return u, nil
}

// pageName is the last path element, used as a fallback title.
func pageName(u *url.URL) string {
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	return name
}
