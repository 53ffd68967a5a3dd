// Package llm wraps the language-model collaborator behind the three
// narrow operations the pipeline needs: official-site verification,
// contact extraction, and fallback email location.
package llm

import (
	"context"

	"github.com/sells-group/contact-scout/internal/model"
)

// Client defines the LLM operations used by the pipeline.
type Client interface {
	// VerifyOfficialSite picks the URL most likely to be the entity's
	// official homepage from the search results. Returns "" when the
	// model judges none of them correct.
	VerifyOfficialSite(ctx context.Context, searchResults []string, entityName string) (string, error)

	// ExtractContactInfo extracts a structured contact record from
	// page text. Missing fields default to empty strings.
	ExtractContactInfo(ctx context.Context, pageText string) (*model.ContactInfo, error)

	// FindEmail locates an email address in search snippet text.
	// Returns "" when none is present.
	FindEmail(ctx context.Context, snippets string) (string, error)
}
