package contact

import "strings"

// hiddenEmailDenylist filters email-shaped strings that are almost always
// false positives in raw markup: asset filenames, tracking services, and
// placeholder domains.
var hiddenEmailDenylist = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".css", ".js",
	"sentry.io", "wixpress.com", "sentry-next",
	"example.com", "domain.com", "email.com", "yourdomain",
	"2x.", "@2x", "u003e",
}

// ScanHiddenEmails scans raw page markup for email-shaped substrings,
// including mailto: targets that never appear in rendered text. Results are
// deduplicated, lowercased, and filtered through the denylist. Order follows
// first appearance in the markup.
func ScanHiddenEmails(markup string) []string {
	matches := emailRe.FindAllString(markup, -1)
	for _, m := range mailtoTargets(markup) {
		matches = append(matches, m)
	}

	seen := make(map[string]struct{}, len(matches))
	var emails []string
	for _, m := range matches {
		e := strings.ToLower(strings.TrimSpace(m))
		if e == "" || denied(e) {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		emails = append(emails, e)
	}
	return emails
}

func mailtoTargets(markup string) []string {
	var targets []string
	rest := markup
	for {
		i := strings.Index(rest, "mailto:")
		if i < 0 {
			break
		}
		rest = rest[i+len("mailto:"):]
		end := strings.IndexAny(rest, `"'?&<> `)
		if end < 0 {
			end = len(rest)
		}
		if addr := emailRe.FindString(rest[:end]); addr != "" {
			targets = append(targets, addr)
		}
	}
	return targets
}

func denied(email string) bool {
	for _, d := range hiddenEmailDenylist {
		if strings.Contains(email, d) {
			return true
		}
	}
	return false
}
