package search

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/contact-scout/internal/resilience"
)

const defaultDDGBaseURL = "https://html.duckduckgo.com/html/"

// maxResults bounds the URL list handed to site verification.
const maxResults = 5

// browserHeaders make requests to the DuckDuckGo HTML endpoint look like a
// regular browser; the endpoint refuses obviously scripted clients.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Referer":         "https://html.duckduckgo.com/",
}

// DuckDuckGo queries the DuckDuckGo HTML endpoint. No API key required.
// Requests are rate limited to stay under the endpoint's bot detection.
type DuckDuckGo struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures the DuckDuckGo client.
type Option func(*DuckDuckGo)

// WithBaseURL overrides the search endpoint (for testing).
func WithBaseURL(u string) Option {
	return func(c *DuckDuckGo) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *DuckDuckGo) {
		c.http = hc
	}
}

// NewDuckDuckGo creates a DuckDuckGo search client.
func NewDuckDuckGo(opts ...Option) *DuckDuckGo {
	c := &DuckDuckGo{
		baseURL: defaultDDGBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
		// One query per 2s with a small burst keeps concurrent
		// pipelines from tripping bot detection.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search performs an HTML search and returns up to 5 direct result URLs.
// DuckDuckGo wraps results in /l/?uddg= redirect links which are unwrapped
// to their targets; duckduckgo.com self-links are dropped.
func (c *DuckDuckGo) Search(ctx context.Context, query string) ([]string, error) {
	doc, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	var results []string
	doc.Find(".result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return true
		}
		if target := unwrapResultURL(href); target != "" {
			results = append(results, target)
		}
		return len(results) < maxResults
	})

	zap.L().Info("search complete",
		zap.String("query", query),
		zap.Int("results", len(results)),
	)
	return results, nil
}

// SearchSnippets performs an HTML search and returns the visible snippet
// text of every result, joined by "---" separators.
func (c *DuckDuckGo) SearchSnippets(ctx context.Context, query string) (string, error) {
	doc, err := c.fetch(ctx, query)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	doc.Find(".result__snippet").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n---\n")
		}
	})
	return b.String(), nil
}

func (c *DuckDuckGo) fetch(ctx context.Context, query string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ddg: rate limit wait")
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "ddg: create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ddg: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("ddg: status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ddg: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, eris.Wrap(err, "ddg: read body")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, eris.Wrap(err, "ddg: parse html")
	}
	return doc, nil
}

// unwrapResultURL resolves a raw result href to its target URL, or ""
// when the href should be discarded.
func unwrapResultURL(href string) string {
	if strings.Contains(href, "uddg=") {
		parsed, err := url.Parse(href)
		if err != nil {
			return ""
		}
		target := parsed.Query().Get("uddg")
		if target == "" || strings.Contains(target, "duckduckgo.com") {
			return ""
		}
		return target
	}
	// Direct link or ad.
	if strings.Contains(href, "duckduckgo.com") {
		return ""
	}
	return href
}
