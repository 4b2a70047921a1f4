// Package origin decides whether a host belongs to a configured set of
// allowed domains.
package origin

import (
	"net/url"
	"strings"
)

// IsAllowed reports whether host ends with one of suffixes.
// A nil suffix list means no restriction is configured and every host is
// allowed. A non-nil, empty list allows nothing.
func IsAllowed(host string, suffixes []string) bool {
	if suffixes == nil {
		return true
	}
	for _, suffix := range suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// Host returns the lower-cased host name of rawURL without port or IPv6
// brackets. Unparseable and opaque URLs (about:blank, data:, mailto:) yield "".
func Host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Opaque != "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Matcher is an immutable allow-list.
type Matcher struct {
	suffixes []string
}

// NewMatcher copies suffixes into a new Matcher. Passing nil yields a matcher
// that allows every host.
func NewMatcher(suffixes []string) *Matcher {
	if suffixes == nil {
		return &Matcher{}
	}
	return &Matcher{suffixes: append([]string{}, suffixes...)}
}

// Restricted reports whether an allow-list was configured.
func (m *Matcher) Restricted() bool {
	return m.suffixes != nil
}

// Suffixes returns a copy of the configured list, or nil if unrestricted.
func (m *Matcher) Suffixes() []string {
	if m.suffixes == nil {
		return nil
	}
	return append([]string{}, m.suffixes...)
}

func (m *Matcher) Allowed(host string) bool {
	return IsAllowed(host, m.suffixes)
}

func (m *Matcher) AllowedURL(rawURL string) bool {
	return m.Allowed(Host(rawURL))
}
