package page

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Gardening Notes</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>Gardening Notes</h1>
<p>Tomatoes need plenty of sunlight and regular watering throughout the warm season, and they reward patient gardeners with a generous harvest late in the summer.</p>
<p>Basil grows well next to tomatoes because both plants prefer similar soil and the strong scent of basil keeps several common pests away from the garden beds.</p>
<p>Mulching the beds keeps moisture in the soil during hot afternoons, limits the growth of weeds, and slowly adds organic matter as the mulch breaks down over time.</p>
<p>Compost made from kitchen scraps and fallen leaves feeds the soil through the winter, so the beds are rich and dark again by the time the first seedlings go into the ground in spring.</p>
</article>
<footer>Copyright notice</footer>
</body>
</html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoaderExtractsArticle(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, articleHTML)
	}))
	defer server.Close()

	l := NewLoader(5*time.Second, 0, true, discardLogger())

	docs, err := l.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotUserAgent != UserAgent {
		t.Fatalf("unexpected User-Agent: %q", gotUserAgent)
	}

	if len(docs) != 1 {
		t.Fatalf("expected one document, got %d", len(docs))
	}

	if !strings.Contains(docs[0].Text, "Tomatoes need plenty of sunlight") {
		t.Fatalf("expected article text, got %q", docs[0].Text)
	}

	if strings.Contains(docs[0].Text, "Copyright notice") {
		t.Fatalf("expected footer to be dropped, got %q", docs[0].Text)
	}

	if docs[0].SourceURL != server.URL {
		t.Fatalf("unexpected source URL: %q", docs[0].SourceURL)
	}
}

func TestLoaderUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	l := newLoader(server.Client(), 0, discardLogger())

	if _, err := l.Load(context.Background(), server.URL); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestLoaderBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, articleHTML)
	}))
	defer server.Close()

	l := newLoader(server.Client(), 64, discardLogger())

	_, err := l.Load(context.Background(), server.URL)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected body limit error, got %v", err)
	}
}

func TestLoaderRefusesPrivateAddresses(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		_, _ = io.WriteString(w, articleHTML)
	}))
	defer server.Close()

	l := NewLoader(5*time.Second, 0, false, discardLogger())

	_, err := l.Load(context.Background(), server.URL)
	if !errors.Is(err, ErrBlockedAddr) {
		t.Fatalf("expected blocked address error, got %v", err)
	}

	if called {
		t.Fatalf("expected no request to reach the server")
	}
}

func TestIsPublicAddr(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want bool
	}{
		{"Public IPv4", "93.184.216.34", true},
		{"Public IPv6", "2606:4700:4700::1111", true},
		{"Loopback", "127.0.0.1", false},
		{"IPv6 loopback", "::1", false},
		{"Private", "10.1.2.3", false},
		{"Private 192.168", "192.168.0.10", false},
		{"Link-local metadata", "169.254.169.254", false},
		{"IPv4-mapped loopback", "::ffff:127.0.0.1", false},
		{"Unspecified", "0.0.0.0", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := isPublicAddr(netip.MustParseAddr(test.addr)); got != test.want {
				t.Errorf("Expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestLoaderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	l := newLoader(&http.Client{Timeout: time.Second}, 0, discardLogger())

	if _, err := l.Load(context.Background(), serverURL); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestBodyTextDropsChrome(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
<script>var x = 1;</script>
<nav>Menu</nav>
<div>  First   line </div>
<div>Second line</div>
<footer>Footer</footer>
</body></html>`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := bodyText(doc)
	want := "First line\nSecond line"
	if got != want {
		t.Fatalf("unexpected body text: got %q want %q", got, want)
	}
}
