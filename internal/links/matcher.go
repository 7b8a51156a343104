// ABOUTME: Domain extraction from message text and whitelist matching
// ABOUTME: A domain passes if it equals or is a subdomain of a whitelisted entry

package links

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches the link shapes moderated chats actually see:
// explicit http(s) URLs, bare www. hosts, and bare t.me invite paths.
var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.|t\.me/)\S+`)

// ExtractDomains scans text for URL-like substrings and returns their
// lower-cased hostnames in order of appearance. Scheme-less forms are
// normalized before parsing (www. gets http://, t.me/ gets https://).
// Malformed matches are skipped silently and never abort the scan.
func ExtractDomains(text string) []string {
	var domains []string

	for _, match := range urlPattern.FindAllString(text, -1) {
		raw := match
		lower := strings.ToLower(raw)
		switch {
		case strings.HasPrefix(lower, "www."):
			raw = "http://" + raw
		case strings.HasPrefix(lower, "t.me/"):
			raw = "https://" + raw
		}

		u, err := url.Parse(raw)
		if err != nil {
			continue
		}

		host := strings.ToLower(u.Hostname())
		if host == "" {
			continue
		}
		domains = append(domains, host)
	}

	return domains
}

// Allowed reports whether domain equals or is a subdomain of any entry
// in the whitelist. An empty whitelist allows nothing.
func Allowed(domain string, whitelist []string) bool {
	domain = strings.ToLower(domain)
	for _, w := range whitelist {
		if domain == w || strings.HasSuffix(domain, "."+w) {
			return true
		}
	}
	return false
}

// WhitelistSource provides the per-chat domain whitelist
type WhitelistSource interface {
	ListWhitelist(ctx context.Context, chatID int64) ([]string, error)
}

// Matcher tests extracted domains against a chat's stored whitelist
type Matcher struct {
	source WhitelistSource
}

// NewMatcher creates a Matcher backed by the given whitelist source
func NewMatcher(source WhitelistSource) *Matcher {
	return &Matcher{source: source}
}

// IsAllowed reports whether the domain is permitted in the chat.
// A storage error propagates so callers can decide fail-open/fail-closed.
func (m *Matcher) IsAllowed(ctx context.Context, chatID int64, domain string) (bool, error) {
	whitelist, err := m.source.ListWhitelist(ctx, chatID)
	if err != nil {
		return false, err
	}
	return Allowed(domain, whitelist), nil
}
