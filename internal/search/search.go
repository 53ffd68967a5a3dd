// Package search provides web-search collaborators used to resolve an
// entity name to candidate URLs and, in fallback mode, to raw result
// snippet text.
package search

import "context"

// Client defines the search operations used by the pipeline.
type Client interface {
	// Search returns up to 5 direct result URLs for a query.
	Search(ctx context.Context, query string) ([]string, error)
	// SearchSnippets returns the visible result snippet text for a
	// query, joined with "---" separators. Used by the fallback email
	// stage to hand search results directly to the LLM.
	SearchSnippets(ctx context.Context, query string) (string, error)
}
