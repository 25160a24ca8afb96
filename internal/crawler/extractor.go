package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkKind classifies a resolved URL relative to the crawl's base origin.
type LinkKind int

const (
	// LinkInternal shares the base origin and is eligible for the frontier.
	LinkInternal LinkKind = iota
	// LinkExternal is an http/https URL on a different origin.
	LinkExternal
)

// Link is one extracted, resolved hyperlink in discovery order.
type Link struct {
	URL  *url.URL
	Kind LinkKind
	// Subdomain holds the host when an external link points at a subdomain
	// of the base host, empty otherwise.
	Subdomain string
}

// linkAttrs are the hyperlink-bearing attributes considered during
// extraction, checked in this order on each element.
var linkAttrs = []string{"href", "src", "action"}

// ExtractLinks parses body as HTML and returns every href/src/action value
// resolved against pageURL and classified against base. Malformed or
// non-http(s) URLs are silently skipped. Order is document order, so
// repeated extraction over the same input is stable.
func ExtractLinks(body []byte, pageURL, base *url.URL) []Link {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var links []Link
	doc.Find("[href], [src], [action]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range linkAttrs {
			raw, ok := s.Attr(attr)
			if !ok {
				continue
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}

			ref, err := url.Parse(raw)
			if err != nil {
				continue
			}
			resolved := pageURL.ResolveReference(ref)
			if resolved.Scheme != "http" && resolved.Scheme != "https" {
				continue
			}
			if resolved.Host == "" {
				continue
			}

			links = append(links, classify(resolved, base))
		}
	})
	return links
}

// classify decides internal vs external, flagging subdomains of the base
// host. A host is a subdomain when it is a strict dot-suffix of the base
// hostname (api.example.com under example.com).
func classify(resolved, base *url.URL) Link {
	if sameOrigin(resolved, base) {
		return Link{URL: resolved, Kind: LinkInternal}
	}

	link := Link{URL: resolved, Kind: LinkExternal}
	host := resolved.Hostname()
	baseHost := base.Hostname()
	if host != baseHost && strings.HasSuffix(host, "."+baseHost) {
		link.Subdomain = host
	}
	return link
}

// sameOrigin compares scheme and host (including port).
func sameOrigin(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && strings.EqualFold(a.Host, b.Host)
}

// NormalizeURL reduces a URL to origin plus path for deduplication: query
// and fragment are stripped and an empty path becomes "/".
func NormalizeURL(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" {
		c.Path = "/"
	}
	return c.String()
}
