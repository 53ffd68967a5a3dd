package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/contact-scout/internal/browse"
)

func TestRankLink_TierOrder(t *testing.T) {
	home := "https://x.com/"
	assert.Equal(t, rankContact, RankLink("https://x.com/contact", home))
	assert.Equal(t, rankAbout, RankLink("https://x.com/about-us", home))
	assert.Equal(t, rankTeam, RankLink("https://x.com/team", home))
	assert.Equal(t, rankTeam, RankLink("https://x.com/our-staff", home))
	assert.Equal(t, rankLocation, RankLink("https://x.com/locations", home))
	assert.Equal(t, rankLocation, RankLink("https://x.com/office", home))
	assert.Equal(t, rankHomepage, RankLink(home, home))
	assert.Equal(t, rankOther, RankLink("https://x.com/news", home))
}

func TestRankLink_ContactBeatsAbout(t *testing.T) {
	// "contact" wins even when other keywords are present.
	assert.Equal(t, rankContact, RankLink("https://x.com/about/contact", "https://x.com/"))
}

func TestHarvestLinks_OrderedByTier(t *testing.T) {
	home := "https://x.com/"
	page := &browse.Page{
		URL: home,
		Anchors: []browse.Anchor{
			{Href: "https://x.com/team", Text: "Team"},
			{Href: "https://x.com/contact", Text: "Contact"},
		},
	}
	got := HarvestLinks(home, page)
	require.Len(t, got, 3)
	assert.Equal(t, "https://x.com/contact", got[0].URL)
	assert.Equal(t, "https://x.com/team", got[1].URL)
	assert.Equal(t, home, got[2].URL)
}

func TestHarvestLinks_ResolvesRelative(t *testing.T) {
	home := "https://x.com/"
	page := &browse.Page{
		Anchors: []browse.Anchor{
			{Href: "/about", Text: "About us"},
			{Href: "contact.html", Text: "Get in touch"},
		},
	}
	got := HarvestLinks(home, page)
	urls := []string{got[0].URL, got[1].URL, got[2].URL}
	assert.Contains(t, urls, "https://x.com/about")
	assert.Contains(t, urls, "https://x.com/contact.html")
}

func TestHarvestLinks_KeywordInTextOrHref(t *testing.T) {
	home := "https://x.com/"
	page := &browse.Page{
		Anchors: []browse.Anchor{
			{Href: "/reach-us", Text: "Contact"},    // keyword in text
			{Href: "/about", Text: "Who we are"},    // keyword in href
			{Href: "/pricing", Text: "Pricing"},     // no keyword
			{Href: "/연락처", Text: "바로가기"},        // localized keyword in href
		},
	}
	got := HarvestLinks(home, page)
	var urls []string
	for _, c := range got {
		urls = append(urls, c.URL)
	}
	assert.Contains(t, urls, "https://x.com/reach-us")
	assert.Contains(t, urls, "https://x.com/about")
	assert.NotContains(t, urls, "https://x.com/pricing")
	assert.Len(t, got, 4) // three matches + homepage
}

func TestHarvestLinks_DiscardsNonHTTP(t *testing.T) {
	home := "https://x.com/"
	page := &browse.Page{
		Anchors: []browse.Anchor{
			{Href: "mailto:contact@x.com", Text: "Email"},
			{Href: "tel:+15550100", Text: "Contact by phone"},
			{Href: "javascript:void(0)", Text: "Contact popup"},
			{Href: "/contact", Text: "Contact"},
		},
	}
	got := HarvestLinks(home, page)
	require.Len(t, got, 2)
	assert.Equal(t, "https://x.com/contact", got[0].URL)
	assert.Equal(t, home, got[1].URL)
}

func TestHarvestLinks_Dedupes(t *testing.T) {
	home := "https://x.com/"
	page := &browse.Page{
		Anchors: []browse.Anchor{
			{Href: "/contact", Text: "Contact"},
			{Href: "https://x.com/contact", Text: "Contact us"},
		},
	}
	got := HarvestLinks(home, page)
	assert.Len(t, got, 2)
}

func TestHarvestLinks_HomepageAlwaysIncluded(t *testing.T) {
	home := "https://x.com/"
	got := HarvestLinks(home, &browse.Page{})
	require.Len(t, got, 1)
	assert.Equal(t, home, got[0].URL)
	assert.Equal(t, rankHomepage, got[0].Rank)
}
