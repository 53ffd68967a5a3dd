package pipeline

import (
	"net/url"
	"sort"
	"strings"

	"github.com/sells-group/contact-scout/internal/browse"
	"github.com/sells-group/contact-scout/internal/model"
)

// linkKeywords marks anchors worth visiting for contact information. The
// set is multilingual; the Korean entries cover 회사소개 (company intro)
// and 연락처 (contact) navigation labels.
var linkKeywords = []string{
	"contact", "about", "location", "team", "connect", "회사소개", "연락처",
}

// Ranking tiers, ascending by visit priority.
const (
	rankContact  = 1
	rankAbout    = 2
	rankTeam     = 3
	rankLocation = 4
	rankHomepage = 5
	rankOther    = 6
)

// HarvestLinks selects candidate contact pages from a homepage's anchors.
// An anchor qualifies when its visible text or href contains a keyword.
// Relative hrefs are resolved against the homepage; non-http(s) schemes
// (mailto:, tel:, javascript:) are discarded. The homepage itself is always
// included as a fallback candidate, and candidates are deduplicated by URL.
func HarvestLinks(homepage string, page *browse.Page) []model.CandidateLink {
	base, err := url.Parse(homepage)
	if err != nil {
		base = nil
	}

	seen := map[string]struct{}{homepage: {}}
	candidates := []model.CandidateLink{{URL: homepage, Rank: RankLink(homepage, homepage)}}

	for _, a := range page.Anchors {
		if !matchesKeyword(a.Text, a.Href) {
			continue
		}

		full := resolveHref(base, a.Href)
		if full == "" {
			continue
		}
		if _, ok := seen[full]; ok {
			continue
		}
		seen[full] = struct{}{}
		candidates = append(candidates, model.CandidateLink{
			URL:  full,
			Rank: RankLink(full, homepage),
		})
	}

	// Stable: ties keep harvest order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rank < candidates[j].Rank
	})
	return candidates
}

// RankLink assigns the visit-priority tier for a candidate URL.
func RankLink(link, homepage string) int {
	l := strings.ToLower(link)
	switch {
	case strings.Contains(l, "contact"):
		return rankContact
	case strings.Contains(l, "about"):
		return rankAbout
	case strings.Contains(l, "team"), strings.Contains(l, "staff"):
		return rankTeam
	case strings.Contains(l, "location"), strings.Contains(l, "office"):
		return rankLocation
	case link == homepage:
		return rankHomepage
	default:
		return rankOther
	}
}

func matchesKeyword(text, href string) bool {
	text = strings.ToLower(text)
	href = strings.ToLower(href)
	for _, k := range linkKeywords {
		if strings.Contains(text, k) || strings.Contains(href, k) {
			return true
		}
	}
	return false
}

// resolveHref resolves an anchor href against the homepage and returns ""
// for anything that is not an absolute http(s) URL after resolution.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	if ref.Host == "" {
		return ""
	}
	return ref.String()
}
