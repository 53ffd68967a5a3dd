package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/contact-scout/internal/browse"
	"github.com/sells-group/contact-scout/internal/contact"
	"github.com/sells-group/contact-scout/internal/llm"
	"github.com/sells-group/contact-scout/internal/model"
	"github.com/sells-group/contact-scout/internal/resilience"
	"github.com/sells-group/contact-scout/internal/search"
)

// Stage abort and terminal messages. These are user-visible via the status
// endpoint and the webhook payload.
const (
	MsgNoSearchResults = "No search results found"
	MsgSiteNotFound    = "Official site not found by LLM"
	MsgExtractFailed   = "Failed to extract contact info via LLM"
	MsgSuccess         = "Successfully extracted contact info"
)

const (
	// maxPagesPerTask bounds how many ranked links are visited for text
	// extraction.
	maxPagesPerTask = 3
	// maxBufferChars caps the combined text handed to contact
	// extraction, bounding LLM cost.
	maxBufferChars = 15000

	defaultCallTimeout = 20 * time.Second
)

// Outcome is the terminal state of one pipeline run. Result always carries
// whatever partial progress was made before a failing stage.
type Outcome struct {
	Status  model.TaskStatus
	Message string
	Result  *model.ScrapeResult
}

// Executor runs the stage sequence for a single task. It is stateless and
// safe for concurrent use; admission control lives in the Gate, not here.
type Executor struct {
	search      search.Client
	browser     browse.Browser
	llm         llm.Client
	callTimeout time.Duration
}

// NewExecutor creates an Executor over the three collaborators.
// callTimeout bounds each individual network/automation call; zero selects
// the 20s default.
func NewExecutor(sc search.Client, br browse.Browser, lc llm.Client, callTimeout time.Duration) *Executor {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &Executor{
		search:      sc,
		browser:     br,
		llm:         lc,
		callTimeout: callTimeout,
	}
}

// Run executes the full stage sequence for an entity name and returns the
// terminal outcome. Errors never escape: any unhandled stage error becomes
// a FAILURE outcome with the error text as message.
func (e *Executor) Run(ctx context.Context, entityName string) *Outcome {
	log := zap.L().With(zap.String("entity", entityName))
	result := &model.ScrapeResult{
		EntityName:   entityName,
		OfficialSite: model.SiteNotAvailable,
	}
	fail := func(msg string) *Outcome {
		return &Outcome{Status: model.TaskStatusFailure, Message: msg, Result: result}
	}

	// Stage 1: search.
	hits, err := resilience.Do(ctx, resilience.SearchPolicy("search"), func(ctx context.Context) ([]string, error) {
		return e.searchWithTimeout(ctx, entityName)
	})
	if err != nil {
		log.Error("search stage failed", zap.Error(err))
		return fail(err.Error())
	}
	if len(hits) == 0 {
		return fail(MsgNoSearchResults)
	}

	// Stage 2: site verification.
	site, err := resilience.Do(ctx, resilience.LLMPolicy("verify_site"), func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		return e.llm.VerifyOfficialSite(ctx, hits, entityName)
	})
	if err != nil {
		log.Error("site verification failed", zap.Error(err))
		return fail(err.Error())
	}
	if site == "" {
		return fail(MsgSiteNotFound)
	}
	result.OfficialSite = site
	log.Info("official site verified", zap.String("site", site))

	// Stage 3+4: link harvesting and ranking.
	home, err := resilience.Do(ctx, resilience.BrowsePolicy("harvest_links"), func(ctx context.Context) (*browse.Page, error) {
		ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		return e.browser.Visit(ctx, site)
	})
	if err != nil {
		log.Error("link harvesting failed", zap.Error(err))
		return fail(err.Error())
	}
	candidates := HarvestLinks(site, home)
	log.Info("links harvested", zap.Int("candidates", len(candidates)))

	// Stage 5: page-text extraction over the top-ranked links.
	buffer := e.collectPageText(ctx, log, site, home, candidates)
	if len(buffer) > maxBufferChars {
		buffer = buffer[:maxBufferChars]
	}

	// Stage 6: contact extraction.
	info, err := resilience.Do(ctx, resilience.LLMPolicy("extract_contact"), func(ctx context.Context) (*model.ContactInfo, error) {
		ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		return e.llm.ExtractContactInfo(ctx, buffer)
	})
	if err != nil || info == nil {
		log.Error("contact extraction failed", zap.Error(err))
		return fail(MsgExtractFailed)
	}
	contact.Normalize(info)

	// Stage 7: fallback email search, only when extraction succeeded with
	// an empty email. A missing email is never a pipeline failure.
	if info.Email == "" {
		e.fallbackEmail(ctx, log, entityName, info)
	}

	result.ContactInfo = info
	return &Outcome{
		Status:  model.TaskStatusSuccess,
		Message: MsgSuccess,
		Result:  result,
	}
}

func (e *Executor) searchWithTimeout(ctx context.Context, entityName string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()
	return e.search.Search(ctx, entityName)
}

// collectPageText visits at most maxPagesPerTask ranked links concurrently,
// appending a source-delimited text block per page in rank order, then a
// hidden-emails block scanned from raw markup so the extraction stage sees
// addresses invisible in rendered text. Individual page failures are logged
// and skipped; text extraction is best effort.
func (e *Executor) collectPageText(ctx context.Context, log *zap.Logger, site string, home *browse.Page, candidates []model.CandidateLink) string {
	visit := candidates
	if len(visit) > maxPagesPerTask {
		visit = visit[:maxPagesPerTask]
	}

	texts := make([]string, len(visit))
	markups := make([]string, len(visit))

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	for i, cand := range visit {
		g.Go(func() error {
			// The homepage was already rendered during harvesting.
			if cand.URL == site {
				mu.Lock()
				texts[i], markups[i] = home.Text, home.HTML
				mu.Unlock()
				return nil
			}

			page, err := resilience.Do(gCtx, resilience.BrowsePolicy("extract_page_text"), func(ctx context.Context) (*browse.Page, error) {
				ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
				defer cancel()
				return e.browser.Visit(ctx, cand.URL)
			})
			if err != nil {
				log.Warn("page visit failed, skipping",
					zap.String("url", cand.URL),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			texts[i], markups[i] = page.Text, page.HTML
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	for i, cand := range visit {
		if texts[i] == "" && markups[i] == "" {
			continue
		}
		fmt.Fprintf(&b, "--- Source: %s ---\n%s\n", cand.URL, texts[i])
	}

	var hidden []string
	seen := make(map[string]struct{})
	for _, m := range markups {
		for _, email := range contact.ScanHiddenEmails(m) {
			if _, ok := seen[email]; ok {
				continue
			}
			seen[email] = struct{}{}
			hidden = append(hidden, email)
		}
	}
	if len(hidden) > 0 {
		fmt.Fprintf(&b, "--- Hidden emails found in page source ---\n%s\n", strings.Join(hidden, "\n"))
	}

	return b.String()
}

// fallbackEmail runs the narrower snippet search and asks the LLM to locate
// an address in the snippets. A found address overwrites only the email
// field, subject to the same normalization as the primary value.
func (e *Executor) fallbackEmail(ctx context.Context, log *zap.Logger, entityName string, info *model.ContactInfo) {
	log.Info("primary extraction missed email, running fallback search")

	query := fmt.Sprintf("%q contact email address", entityName)
	snippets, err := resilience.Do(ctx, resilience.SearchPolicy("fallback_search"), func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		return e.search.SearchSnippets(ctx, query)
	})
	if err != nil {
		log.Warn("fallback snippet search failed", zap.Error(err))
		return
	}
	if strings.TrimSpace(snippets) == "" {
		return
	}

	found, err := resilience.Do(ctx, resilience.LLMPolicy("fallback_email"), func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		return e.llm.FindEmail(ctx, snippets)
	})
	if err != nil {
		log.Warn("fallback email extraction failed", zap.Error(err))
		return
	}

	if email := contact.ExtractEmail(found); email != "" {
		info.Email = email
		log.Info("fallback search recovered email")
	}
}
