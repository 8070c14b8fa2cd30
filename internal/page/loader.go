package page

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"summify/internal/domain"
	"syscall"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

const (
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

	DefaultMaxBodyBytes int64 = 5 << 20

	chromeSelectors = "script, style, noscript, iframe, svg, template, header, footer, nav, aside"
)

var (
	ErrBodyTooLarge = errors.New("response body is too large")
	ErrNoText       = errors.New("no extractable text")
	ErrBlockedAddr  = errors.New("address is not publicly routable")
)

// Loader downloads a page and extracts its readable text.
type Loader struct {
	client       *http.Client
	maxBodyBytes int64
	log          *slog.Logger
}

// NewLoader builds a loader that skips TLS verification. Unless
// allowPrivateNetworks is set, connections to loopback, private and
// link-local addresses are refused at dial time, redirects included.
func NewLoader(timeout time.Duration, maxBodyBytes int64, allowPrivateNetworks bool, log *slog.Logger) *Loader {
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	if !allowPrivateNetworks {
		dialer.Control = publicOnly
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // Pages with broken certificates are still summarised.
	}

	return newLoader(&http.Client{Timeout: timeout, Transport: transport}, maxBodyBytes, log)
}

func newLoader(client *http.Client, maxBodyBytes int64, log *slog.Logger) *Loader {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &Loader{client: client, maxBodyBytes: maxBodyBytes, log: log}
}

func publicOnly(_, address string, _ syscall.RawConn) error {
	addrPort, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("parse dial address: %w", err)
	}

	if !isPublicAddr(addrPort.Addr()) {
		return fmt.Errorf("dial %s: %w", address, ErrBlockedAddr)
	}

	return nil
}

func isPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()

	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast() &&
		!addr.IsMulticast() &&
		!addr.IsUnspecified()
}

func (l *Loader) Load(ctx context.Context, pageURL string) ([]domain.Document, error) {
	body, finalURL, err := l.fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	title, text, err := l.extract(ctx, body, finalURL)
	if err != nil {
		return nil, fmt.Errorf("extract text (URL = %s): %w", pageURL, err)
	}

	return []domain.Document{{
		Text:      text,
		Title:     title,
		SourceURL: pageURL,
		Strategy:  domain.StrategyPage,
	}}, nil
}

func (l *Loader) fetch(ctx context.Context, pageURL string) ([]byte, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)

	resp, err := l.client.Do(req) //nolint:gosec // URL is provided by the user on purpose.
	if err != nil {
		return nil, nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			l.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"pageURL", pageURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBodyBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read body: %w", err)
	}

	if int64(len(body)) > l.maxBodyBytes {
		return nil, nil, fmt.Errorf("read body: %w (limit = %d bytes)", ErrBodyTooLarge, l.maxBodyBytes)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	return body, finalURL, nil
}

// extract prefers the readability article rendered as Markdown and falls
// back to the visible body text of the same document.
func (l *Loader) extract(ctx context.Context, body []byte, pageURL *url.URL) (string, string, error) {
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err == nil {
		if text := articleText(article); text != "" {
			return strings.TrimSpace(article.Title), text, nil
		}
	} else {
		l.log.DebugContext(ctx, "Readability failed so body text will be used",
			"error", err,
			"pageURL", pageURL.String())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", fmt.Errorf("create document from reader: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok && title == "" {
		title = strings.TrimSpace(content)
	}

	text := bodyText(doc)
	if text == "" {
		return "", "", ErrNoText
	}

	return title, text, nil
}

func articleText(article readability.Article) string {
	if strings.TrimSpace(article.Content) != "" {
		md, err := htmltomarkdown.ConvertString(article.Content)
		if err == nil && strings.TrimSpace(md) != "" {
			return strings.TrimSpace(md)
		}
	}

	return strings.TrimSpace(article.TextContent)
}

func bodyText(doc *goquery.Document) string {
	doc.Find(chromeSelectors).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var lines []string
	for _, line := range strings.Split(root.Text(), "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}
