// Package report renders markdown reports from crawl and scan results.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/models"
)

// WriteCrawlReport generates a markdown report for a crawl result and
// writes it to the specified output path.
func WriteCrawlReport(result *models.CrawlResult, outputPath string) error {
	var b strings.Builder

	b.WriteString("# Crawl Report\n\n")
	b.WriteString(fmt.Sprintf("**Domain:** %s\n", result.Domain))
	b.WriteString(fmt.Sprintf("**Date:** %s\n", result.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Pages crawled:** %d | **Internal links:** %d | **External links:** %d | **Subdomains:** %d\n",
		result.PagesCrawled, len(result.InternalLinks), len(result.ExternalLinks), len(result.Subdomains)))
	b.WriteString(fmt.Sprintf("**Elapsed:** %s\n\n", (time.Duration(result.Elapsed * float64(time.Second))).Round(time.Millisecond)))

	if result.StoppedEarly {
		b.WriteString("> Page limit reached before the frontier was exhausted.\n\n")
	}
	if result.Cancelled {
		b.WriteString("> Crawl was cancelled; results are partial.\n\n")
	}

	b.WriteString("## Pages\n\n")
	if len(result.Pages) > 0 {
		b.WriteString("| URL | Status | Links | Findings |\n")
		b.WriteString("|-----|--------|-------|----------|\n")
		for _, p := range result.Pages {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n", p.URL, p.StatusCode, p.LinksFound, len(p.Findings)))
		}
	} else {
		b.WriteString("None crawled.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Attack Surface Findings\n\n")
	any := false
	for _, p := range result.Pages {
		if len(p.Findings) == 0 {
			continue
		}
		any = true
		b.WriteString(fmt.Sprintf("### %s\n\n", p.URL))
		for _, f := range p.Findings {
			b.WriteString(fmt.Sprintf("- %s\n", f))
		}
		b.WriteString("\n")
	}
	if !any {
		b.WriteString("None found.\n\n")
	}

	writeList(&b, "Subdomains", result.Subdomains)
	writeList(&b, "External Links", result.ExternalLinks)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(outputPath, []byte(b.String()), 0644)
}

func writeList(b *strings.Builder, title string, items []string) {
	b.WriteString(fmt.Sprintf("## %s\n\n", title))
	if len(items) == 0 {
		b.WriteString("None found.\n\n")
		return
	}
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s\n", item))
	}
	b.WriteString("\n")
}
