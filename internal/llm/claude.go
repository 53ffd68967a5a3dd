package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/contact-scout/internal/model"
)

const defaultModel = "claude-haiku-4-5-20251001"

const verifySystem = "You are a helpful assistant that identifies official company and organization websites."

const verifyPrompt = `I am looking for the official homepage of "%s".
Here are the search results:
%s

Return ONLY the URL that is most likely the official homepage.
If none look correct, return "NOT_FOUND".
Do not output any explanation.`

const extractSystem = "You are a data extraction assistant. Output valid JSON only."

const extractPrompt = `Extract contact information for the organization from the following text.

Text Content (Truncated):
%s

Return a valid JSON object with the following keys:
- "phone": the phone number (string)
- "fax": the fax number (string)
- "email": the email address (string)
- "address": the full physical address (string)
- "city": the city (string)
- "state": the state or province (string)
- "zip_code": the postal code (string)
- "department_contacts": an object of specific department contacts if available (e.g. {"Sales": "123-456"})

If a field is not found, use an empty string. Output strictly valid JSON with no surrounding text.`

const findEmailPrompt = `The following are web search result snippets for an organization's contact email address.

Snippets:
%s

Find the organization's email address in the snippets. Return ONLY the email
address. If no email address is present, return "NOT_FOUND". Do not output
any explanation.`

// Claude implements Client on the Anthropic Messages API.
type Claude struct {
	client sdk.Client
	model  string
}

// ClaudeOption configures the Claude client.
type ClaudeOption func(*Claude)

// WithModel overrides the default model.
func WithModel(m string) ClaudeOption {
	return func(c *Claude) {
		if m != "" {
			c.model = m
		}
	}
}

// WithSDKOptions passes extra options to the underlying SDK client
// (base URL override for testing, custom HTTP client).
func WithSDKOptions(opts ...option.RequestOption) ClaudeOption {
	return func(c *Claude) {
		c.client = sdk.NewClient(opts...)
	}
}

// NewClaude creates a Claude-backed LLM client.
func NewClaude(apiKey string, opts ...ClaudeOption) *Claude {
	c := &Claude{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Claude) complete(ctx context.Context, system, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   1024,
		Temperature: sdk.Float(0),
		System:      []sdk.TextBlockParam{{Text: system}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: create message")
	}

	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

func (c *Claude) VerifyOfficialSite(ctx context.Context, searchResults []string, entityName string) (string, error) {
	if len(searchResults) == 0 {
		return "", nil
	}

	urlList, err := json.MarshalIndent(searchResults, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "llm: marshal search results")
	}

	out, err := c.complete(ctx, verifySystem, fmt.Sprintf(verifyPrompt, entityName, urlList))
	if err != nil {
		return "", err
	}
	site := parseVerifiedSite(out)
	zap.L().Debug("site verification",
		zap.String("entity", entityName),
		zap.String("site", site),
	)
	return site, nil
}

func (c *Claude) ExtractContactInfo(ctx context.Context, pageText string) (*model.ContactInfo, error) {
	if strings.TrimSpace(pageText) == "" {
		return nil, eris.New("llm: empty page text")
	}

	out, err := c.complete(ctx, extractSystem, fmt.Sprintf(extractPrompt, pageText))
	if err != nil {
		return nil, err
	}
	return parseContactInfo(out)
}

func (c *Claude) FindEmail(ctx context.Context, snippets string) (string, error) {
	if strings.TrimSpace(snippets) == "" {
		return "", nil
	}

	out, err := c.complete(ctx, extractSystem, fmt.Sprintf(findEmailPrompt, snippets))
	if err != nil {
		return "", err
	}
	if strings.Contains(out, "NOT_FOUND") {
		return "", nil
	}
	return out, nil
}
