package models

import (
	"time"

	"github.com/google/uuid"
)

// CrawlTarget describes one crawl invocation: the base origin to explore and
// the hard traversal bounds. Depth and page-count limits are always enforced;
// a traversal never exceeds either.
type CrawlTarget struct {
	URL      string `json:"url"`
	MaxDepth int    `json:"max_depth"`
	MaxPages int    `json:"max_pages"`
}

// CrawledPage records one successfully fetched and analyzed HTML page.
// Immutable after creation.
type CrawledPage struct {
	URL        string   `json:"url"`
	StatusCode int      `json:"status_code"`
	LinksFound int      `json:"links_found"`
	Findings   []string `json:"findings,omitempty"`
}

// CrawlResult is the complete output of one crawl. It is owned exclusively by
// the call that produced it and never mutated after being returned.
type CrawlResult struct {
	ID            string        `json:"id"`
	Domain        string        `json:"domain"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
	Status        SessionStatus `json:"status"`
	PagesCrawled  int           `json:"pages_crawled"`
	InternalLinks []string      `json:"internal_links"`
	ExternalLinks []string      `json:"external_links"`
	Subdomains    []string      `json:"subdomains"`
	Pages         []CrawledPage `json:"pages"`
	StoppedEarly  bool          `json:"stopped_early"`
	Cancelled     bool          `json:"cancelled"`
	Elapsed       float64       `json:"elapsed_seconds"`
	Steps         []string      `json:"steps"`
}

// NewCrawlResult creates a crawl result shell with initialized metadata.
func NewCrawlResult(domain string) *CrawlResult {
	return &CrawlResult{
		ID:            uuid.New().String(),
		Domain:        domain,
		StartedAt:     time.Now(),
		Status:        StatusPending,
		InternalLinks: []string{},
		ExternalLinks: []string{},
		Subdomains:    []string{},
		Pages:         []CrawledPage{},
	}
}
