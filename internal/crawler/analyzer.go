package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Attack-surface heuristics. Each check is evaluated independently and a
// page may accumulate several findings; everything here is static pattern
// matching over already-fetched data, never an active test.

var authPathPattern = regexp.MustCompile(`(?i)login|signin|auth|password`)

// textInputTypes are the input types a human can type free text into. A
// missing type attribute defaults to text.
var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"search":   true,
	"email":    true,
	"password": true,
	"url":      true,
	"tel":      true,
}

var sensitiveCommentWords = []string{
	"password", "secret", "key", "token", "todo", "fixme", "hack", "bug",
}

// AnalyzeAttackSurface inspects a fetched page and returns an ordered list
// of human-readable findings indicating where a tester should look next.
func AnalyzeAttackSurface(body []byte, pageURL *url.URL, contentType string) []string {
	var findings []string

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		doc = nil
	}

	var forms, textInputs int
	var hasFileUpload, hasPasswordInput bool

	if doc != nil {
		forms = doc.Find("form").Length()
		doc.Find("input").Each(func(_ int, s *goquery.Selection) {
			typ := strings.ToLower(strings.TrimSpace(s.AttrOr("type", "")))
			if textInputTypes[typ] {
				textInputs++
			}
			if typ == "file" {
				hasFileUpload = true
			}
			if typ == "password" {
				hasPasswordInput = true
			}
		})
	}

	if forms > 0 {
		findings = append(findings, fmt.Sprintf("%d form(s) — potential injection target", forms))
	}
	if textInputs > 0 {
		findings = append(findings, fmt.Sprintf("%d text input(s) — XSS/injection vector", textInputs))
	}
	if hasFileUpload {
		findings = append(findings, "File upload detected — potential RCE/upload bypass")
	}
	if hasQueryParameters(pageURL) {
		findings = append(findings, "URL has query parameters — SQLi/XSS testing target")
	}
	if authPathPattern.MatchString(pageURL.Path) || hasPasswordInput {
		findings = append(findings, "Authentication page — brute force/credential stuffing target")
	}
	if strings.Contains(pageURL.Path, "/api/") || strings.Contains(contentType, "application/json") {
		findings = append(findings, "API endpoint — test for auth bypass and IDOR")
	}
	if n := countSensitiveComments(body); n > 0 {
		findings = append(findings, fmt.Sprintf("%d HTML comment(s) with sensitive keywords", n))
	}

	return findings
}

// hasQueryParameters reports whether the URL carries at least one key=value
// pair (a bare "?flag" does not count).
func hasQueryParameters(u *url.URL) bool {
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if idx := strings.Index(pair, "="); idx > 0 {
			return true
		}
	}
	return false
}

// countSensitiveComments tokenizes the raw HTML and counts comments that
// mention a sensitive keyword. goquery's selection API does not surface
// comment nodes, so this walks the token stream directly.
func countSensitiveComments(body []byte) int {
	count := 0
	z := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return count
		}
		if tt != html.CommentToken {
			continue
		}
		comment := strings.ToLower(z.Token().Data)
		for _, w := range sensitiveCommentWords {
			if strings.Contains(comment, w) {
				count++
				break
			}
		}
	}
}
