package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/contact-scout/internal/resilience"
)

const defaultJinaBaseURL = "https://s.jina.ai"

// Jina is the alternate search provider, used when a Jina API key is
// configured. Unlike the DuckDuckGo HTML endpoint it is a stable JSON API
// and needs no bot-evasion headers.
type Jina struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// JinaOption configures the Jina client.
type JinaOption func(*Jina)

// WithJinaBaseURL overrides the API base URL (for testing).
func WithJinaBaseURL(u string) JinaOption {
	return func(c *Jina) {
		c.baseURL = u
	}
}

// WithJinaHTTPClient overrides the default http.Client.
func WithJinaHTTPClient(hc *http.Client) JinaOption {
	return func(c *Jina) {
		c.http = hc
	}
}

// NewJina creates a Jina AI Search client.
func NewJina(apiKey string, opts ...JinaOption) *Jina {
	c := &Jina{
		apiKey:  apiKey,
		baseURL: defaultJinaBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type jinaSearchResponse struct {
	Code int `json:"code"`
	Data []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Description string `json:"description"`
	} `json:"data"`
}

// Search returns up to 5 direct result URLs.
func (c *Jina) Search(ctx context.Context, query string) ([]string, error) {
	sr, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	var results []string
	for _, d := range sr.Data {
		if d.URL == "" {
			continue
		}
		results = append(results, d.URL)
		if len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// SearchSnippets returns result descriptions joined by "---" separators.
func (c *Jina) SearchSnippets(ctx context.Context, query string) (string, error) {
	sr, err := c.fetch(ctx, query)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, d := range sr.Data {
		text := strings.TrimSpace(d.Description)
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n---\n")
		}
	}
	return b.String(), nil
}

func (c *Jina) fetch(ctx context.Context, query string) (*jinaSearchResponse, error) {
	u := c.baseURL + "/?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jina: create request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "jina: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, eris.Wrap(err, "jina: read body")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("jina: status %d", resp.StatusCode), resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("jina: status %d: %s", resp.StatusCode, string(body))
	}

	var sr jinaSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "jina: decode response")
	}
	return &sr, nil
}
