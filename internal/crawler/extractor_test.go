package crawler

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestExtractLinksClassification(t *testing.T) {
	base := mustParse(t, "https://example.com")
	page := mustParse(t, "https://example.com/docs/")
	body := []byte(`<html><body>
		<a href="/about">About</a>
		<a href="guide.html">Guide</a>
		<img src="https://cdn.example.net/logo.png">
		<form action="https://example.com/search"></form>
		<a href="https://api.example.com/v1/">API</a>
		<a href="https://other.org/page">Other</a>
		<a href="mailto:x@example.com">Mail</a>
		<a href="javascript:void(0)">JS</a>
	</body></html>`)

	links := ExtractLinks(body, page, base)
	if len(links) != 6 {
		t.Fatalf("got %d links, want 6 (mailto/javascript skipped): %+v", len(links), links)
	}

	wantInternal := map[string]bool{
		"https://example.com/about":            true,
		"https://example.com/docs/guide.html":  true,
		"https://example.com/search":           true,
	}
	var internals, externals, subs []string
	for _, l := range links {
		switch l.Kind {
		case LinkInternal:
			internals = append(internals, l.URL.String())
		case LinkExternal:
			externals = append(externals, l.URL.String())
			if l.Subdomain != "" {
				subs = append(subs, l.Subdomain)
			}
		}
	}

	if len(internals) != 3 {
		t.Errorf("internal links = %v, want 3", internals)
	}
	for _, u := range internals {
		if !wantInternal[u] {
			t.Errorf("unexpected internal link %s", u)
		}
	}
	if len(externals) != 3 {
		t.Errorf("external links = %v, want 3", externals)
	}
	if len(subs) != 1 || subs[0] != "api.example.com" {
		t.Errorf("subdomains = %v, want [api.example.com]", subs)
	}
}

func TestExtractLinksExactlyOneClass(t *testing.T) {
	base := mustParse(t, "https://example.com")
	page := mustParse(t, "https://example.com/")
	body := []byte(`<a href="https://example.com/x"></a><a href="https://blog.example.com/y"></a>`)

	for _, l := range ExtractLinks(body, page, base) {
		internal := l.Kind == LinkInternal
		external := l.Kind == LinkExternal
		if internal == external {
			t.Errorf("link %s must be exactly one of internal/external", l.URL)
		}
		if internal && l.Subdomain != "" {
			t.Errorf("internal link %s must not carry a subdomain", l.URL)
		}
	}
}

func TestExtractLinksSubdomainRequiresStrictSuffix(t *testing.T) {
	base := mustParse(t, "https://example.com")
	page := mustParse(t, "https://example.com/")
	body := []byte(`
		<a href="https://app.example.com/"></a>
		<a href="https://notexample.com/"></a>
		<a href="https://example.com.evil.net/"></a>
	`)

	var subs []string
	for _, l := range ExtractLinks(body, page, base) {
		if l.Subdomain != "" {
			subs = append(subs, l.Subdomain)
		}
	}
	if len(subs) != 1 || subs[0] != "app.example.com" {
		t.Errorf("subdomains = %v, want only app.example.com", subs)
	}
}

func TestExtractLinksSkipsMalformed(t *testing.T) {
	base := mustParse(t, "https://example.com")
	page := mustParse(t, "https://example.com/")
	body := []byte(`<a href="http://%zz/bad"></a><a href="   "></a><a href="/ok"></a>`)

	links := ExtractLinks(body, page, base)
	if len(links) != 1 || links[0].URL.Path != "/ok" {
		t.Errorf("links = %+v, want only /ok", links)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com", "https://example.com/"},
		{"https://example.com/page?a=1&b=2", "https://example.com/page"},
		{"https://example.com/page#section", "https://example.com/page"},
		{"https://example.com/a/b?x=1#y", "https://example.com/a/b"},
	}
	for _, tc := range cases {
		u := mustParse(t, tc.in)
		if got := NormalizeURL(u); got != tc.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
