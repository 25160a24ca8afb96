package crawler

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// fetchDisallowRules retrieves and parses the target's robots.txt, returning
// the Disallow path prefixes from the "User-agent: *" group. Any failure
// (missing file, timeout, non-200) returns an empty rule set and the error;
// callers degrade to an unrestricted crawl rather than failing.
func fetchDisallowRules(ctx context.Context, client *http.Client, base *url.URL, userAgent string, timeout time.Duration) ([]string, error) {
	robotsURL := *base
	robotsURL.Path = "/robots.txt"
	robotsURL.RawQuery = ""

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	return parseDisallowRules(io.LimitReader(resp.Body, 256<<10)), nil
}

// parseDisallowRules extracts Disallow prefixes from the wildcard group.
// Grouping follows the de facto format: consecutive User-agent lines open a
// group, any other directive closes the agent list.
func parseDisallowRules(r io.Reader) []string {
	var rules []string
	inWildcard := false
	inAgentList := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		field = strings.ToLower(strings.TrimSpace(field))
		value = strings.TrimSpace(value)

		switch field {
		case "user-agent":
			if !inAgentList {
				inWildcard = false
				inAgentList = true
			}
			if value == "*" {
				inWildcard = true
			}
		case "disallow":
			inAgentList = false
			if inWildcard && value != "" {
				rules = append(rules, value)
			}
		default:
			inAgentList = false
		}
	}
	return rules
}

// disallowed reports whether path matches any Disallow prefix.
func disallowed(rules []string, path string) bool {
	if path == "" {
		path = "/"
	}
	for _, prefix := range rules {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
