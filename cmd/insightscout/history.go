package main

import (
	"fmt"

	"github.com/karthik0284-K/insight-scout/internal/models"
	"github.com/karthik0284-K/insight-scout/internal/storage"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show scan or crawl history for a target",
	Long: `Display a formatted table of past sessions for a target.

Use --target for port scan sessions (IP or range) or --domain for crawl
history. Rows are listed newest-first. Use --limit to cap the number of rows
shown (default: 10).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		target, _ := cmd.Flags().GetString("target")
		domain, _ := cmd.Flags().GetString("domain")
		limit, _ := cmd.Flags().GetInt("limit")

		if (target == "") == (domain == "") {
			return fmt.Errorf("exactly one of --target or --domain is required")
		}

		// Step 2: Config check
		if cfg == nil {
			return fmt.Errorf("config not loaded. Run 'insightscout init' first to create config")
		}

		// Step 3: Open bbolt store
		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		if target != "" {
			return printScanHistory(store, target, limit)
		}
		return printCrawlHistory(store, domain, limit)
	},
}

func printScanHistory(store *storage.Store, target string, limit int) error {
	sessions, err := store.ListSessions(target)
	if err != nil {
		return fmt.Errorf("listing sessions for %s: %w", target, err)
	}

	if len(sessions) == 0 {
		fmt.Printf("No scan history found for %s\n", target)
		return nil
	}
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}

	const separator = "────────────────────────────────────────────────────────────────────────"

	fmt.Printf("\nScan History for %s\n", target)
	fmt.Println(separator)
	fmt.Printf("  %-3s  %-12s  %-20s  %-10s  %-6s  %s\n", "#", "Session ID", "Started", "Status", "Hosts", "Open")
	fmt.Println(separator)

	for i, session := range sessions {
		fmt.Printf("  %-3d  %-12s  %-20s  %-10s  %-6d  %d\n",
			i+1, shortSessionID(session.ID),
			session.StartedAt.UTC().Format("2006-01-02 15:04"),
			string(session.Status), session.HostsScanned, session.TotalOpen)
	}

	fmt.Println(separator)
	fmt.Printf("Total: %d session(s)\n\n", len(sessions))
	return nil
}

func printCrawlHistory(store *storage.Store, domain string, limit int) error {
	crawls, err := store.ListCrawls(domain)
	if err != nil {
		return fmt.Errorf("listing crawls for %s: %w", domain, err)
	}

	if len(crawls) == 0 {
		fmt.Printf("No crawl history found for %s\n", domain)
		return nil
	}
	if limit > 0 && len(crawls) > limit {
		crawls = crawls[:limit]
	}

	const separator = "────────────────────────────────────────────────────────────────────────"

	fmt.Printf("\nCrawl History for %s\n", domain)
	fmt.Println(separator)
	fmt.Printf("  %-3s  %-12s  %-20s  %-10s  %-6s  %s\n", "#", "Crawl ID", "Started", "Status", "Pages", "Findings")
	fmt.Println(separator)

	for i, crawl := range crawls {
		fmt.Printf("  %-3d  %-12s  %-20s  %-10s  %-6d  %d\n",
			i+1, shortSessionID(crawl.ID),
			crawl.StartedAt.UTC().Format("2006-01-02 15:04"),
			string(crawl.Status), crawl.PagesCrawled, countFindings(crawl))
	}

	fmt.Println(separator)
	fmt.Printf("Total: %d crawl(s)\n\n", len(crawls))
	return nil
}

// shortSessionID returns the first 8 characters of a UUID followed by "..."
// for compact table display. Falls back to the full ID when shorter.
func shortSessionID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func countFindings(crawl *models.CrawlResult) int {
	total := 0
	for _, page := range crawl.Pages {
		total += len(page.Findings)
	}
	return total
}

func init() {
	historyCmd.Flags().StringP("target", "t", "", "IP or range to show scan sessions for")
	historyCmd.Flags().StringP("domain", "d", "", "Domain to show crawl history for")
	historyCmd.Flags().Int("limit", 10, "Maximum number of rows to display")
	rootCmd.AddCommand(historyCmd)
}
