// Package crawler implements a breadth-first web crawler with link
// classification and attack-surface analysis, bounded by depth and
// page-count limits.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/models"
)

// Config carries the crawl engine's tunables. Zero values fall back to the
// defaults below.
type Config struct {
	UserAgent     string
	FetchTimeout  time.Duration
	RobotsTimeout time.Duration
	MaxBodyBytes  int64
}

const (
	defaultUserAgent     = "insight-scout-crawler/1.0"
	defaultFetchTimeout  = 10 * time.Second
	defaultRobotsTimeout = 5 * time.Second
	defaultMaxBodyBytes  = 2 << 20
)

// Engine runs BFS crawls. Each Run call owns its own frontier, visited set
// and result accumulator; concurrent Runs share only the HTTP client.
type Engine struct {
	cfg    Config
	client *http.Client
}

// New creates a crawl engine.
func New(cfg Config) *Engine {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.RobotsTimeout <= 0 {
		cfg.RobotsTimeout = defaultRobotsTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Engine{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        20,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 5 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
	}
}

// Run crawls target breadth-first until the frontier empties, the page cap
// is reached, or ctx is cancelled. Per-page fetch failures are logged and
// skipped; they never abort the crawl. The returned result always contains
// whatever was accumulated, including on cancellation.
func (e *Engine) Run(ctx context.Context, target models.CrawlTarget) (*models.CrawlResult, error) {
	// Step 1: Validate input.
	base, err := parseBaseURL(target.URL)
	if err != nil {
		return nil, err
	}
	if target.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth must be >= 0, got %d", target.MaxDepth)
	}
	if target.MaxPages < 1 {
		return nil, fmt.Errorf("max pages must be >= 1, got %d", target.MaxPages)
	}

	result := models.NewCrawlResult(base.Hostname())
	result.Status = models.StatusRunning
	log := &models.StepLog{}
	log.Addf(models.PrefixMilestone, "Starting crawl of %s (max depth %d, max pages %d)",
		base.String(), target.MaxDepth, target.MaxPages)

	// Step 2: Robots check. Failure degrades to an unrestricted crawl.
	rules, robotsErr := fetchDisallowRules(ctx, e.client, base, e.cfg.UserAgent, e.cfg.RobotsTimeout)
	switch {
	case robotsErr != nil:
		log.Addf(models.PrefixWarn, "robots.txt unavailable (%v); crawling unrestricted", robotsErr)
	case len(rules) > 0:
		log.Addf(models.PrefixInfo, "robots.txt loaded: %d disallow rule(s)", len(rules))
	default:
		log.Addf(models.PrefixNegative, "robots.txt: no restrictions")
	}

	// Step 3: BFS traversal.
	start := time.Now()
	front := newFrontier()
	front.push(base, 0)

	internal := make(map[string]bool)
	external := make(map[string]bool)
	subdomains := make(map[string]bool)

	visited := 0
	currentDepth := -1

	for !front.empty() {
		if ctx.Err() != nil {
			result.Cancelled = true
			log.Addf(models.PrefixWarn, "Crawl cancelled by user after %d page(s); returning partial results", visited)
			break
		}
		if visited >= target.MaxPages {
			result.StoppedEarly = true
			log.Addf(models.PrefixWarn, "Page limit reached with %d URL(s) still queued", front.len())
			break
		}

		item := front.pop()
		visited++

		if item.depth > currentDepth {
			currentDepth = item.depth
			log.Addf(models.PrefixMilestone, "Crawling depth %d", currentDepth)
		}

		if disallowed(rules, item.u.Path) {
			log.Addf(models.PrefixNegative, "Skipping %s: disallowed by robots.txt", item.u)
			continue
		}

		page, links, fetchErr := e.fetchPage(ctx, item.u, base)
		if fetchErr != nil {
			log.Addf(models.PrefixWarn, "Fetch failed for %s: %v", item.u, fetchErr)
			continue
		}
		if page == nil {
			// Non-HTML response: counts as visited, not as a crawled page.
			log.Addf(models.PrefixNegative, "Skipping %s: not an HTML page", item.u)
			continue
		}

		// Classify links in discovery order; discovery order is the
		// enqueue tie-break, so traversal is deterministic for a fixed
		// site graph.
		for _, link := range links {
			switch link.Kind {
			case LinkInternal:
				norm := NormalizeURL(link.URL)
				internal[norm] = true
				if item.depth+1 <= target.MaxDepth {
					front.push(link.URL, item.depth+1)
				}
			case LinkExternal:
				external[link.URL.String()] = true
				if link.Subdomain != "" {
					subdomains[link.Subdomain] = true
				}
			}
		}

		result.Pages = append(result.Pages, *page)
		log.Addf(models.PrefixInfo, "Crawled %s (depth %d): status %d, %d link(s), %d finding(s)",
			page.URL, item.depth, page.StatusCode, page.LinksFound, len(page.Findings))
		for _, f := range page.Findings {
			log.Addf(models.PrefixSuccess, "%s: %s", page.URL, f)
		}
	}

	// Step 4: Assemble the result.
	result.PagesCrawled = len(result.Pages)
	result.InternalLinks = sortedKeys(internal)
	result.ExternalLinks = sortedKeys(external)
	result.Subdomains = sortedKeys(subdomains)
	result.Elapsed = time.Since(start).Seconds()

	log.Addf(models.PrefixMilestone, "Crawl complete in %s: %d page(s), %d internal, %d external, %d subdomain(s)",
		time.Since(start).Round(time.Millisecond), result.PagesCrawled,
		len(result.InternalLinks), len(result.ExternalLinks), len(result.Subdomains))

	result.Steps = log.Entries()
	result.Status = models.StatusComplete
	now := time.Now()
	result.CompletedAt = &now
	return result, nil
}

// fetchPage retrieves one URL within the fetch timeout. It returns a nil
// page (and nil error) for non-HTML responses, and the extracted links for
// HTML ones, classified against base.
func (e *Engine) fetchPage(ctx context.Context, u, base *url.URL) (*models.CrawledPage, []Link, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBodyBytes))
	if err != nil {
		return nil, nil, err
	}

	// Redirects may have moved us; resolve links against the final URL.
	pageURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL
	}

	links := ExtractLinks(body, pageURL, base)
	page := &models.CrawledPage{
		URL:        pageURL.String(),
		StatusCode: resp.StatusCode,
		LinksFound: len(links),
		Findings:   AnalyzeAttackSurface(body, pageURL, contentType),
	}
	return page, links, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}
	return u, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
