// Package browse abstracts the page-rendering collaborator: given a URL,
// return the page's visible text, raw markup, and anchor elements.
package browse

import "context"

// Anchor is a single <a href> element with its visible text.
type Anchor struct {
	Href string
	Text string
}

// Page holds a rendered page.
type Page struct {
	URL     string
	Title   string
	Text    string   // visible text, whitespace-collapsed
	HTML    string   // raw markup, for hidden-email scanning
	Anchors []Anchor // all anchors with a non-empty href
}

// Browser renders a single URL. Implementations own their transport and
// timeout behavior; callers wrap invocations with a retry policy.
type Browser interface {
	Visit(ctx context.Context, url string) (*Page, error)
}
