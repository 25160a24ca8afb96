package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/crawler"
	"github.com/karthik0284-K/insight-scout/internal/models"
	"github.com/karthik0284-K/insight-scout/internal/report"
	"github.com/karthik0284-K/insight-scout/internal/storage"
	"github.com/spf13/cobra"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Crawl a website and map its attack surface",
	Long: `Crawl a target website breadth-first, classifying every discovered link
as internal or external, collecting subdomains, and flagging attack-surface
indicators (forms, file uploads, auth pages, API endpoints, leaky comments).

The crawl honors robots.txt Disallow rules and stops at the configured depth
and page limits. Press Ctrl-C to stop early and keep partial results.

Results are saved to:
  - {scan_dir}/{target}_{timestamp}/reports/crawl.md (report)
  - {scan_dir}/{target}_{timestamp}/raw/crawl.json (raw data)

Crawl metadata is stored in the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		targetURL, _ := cmd.Flags().GetString("url")
		depth, _ := cmd.Flags().GetInt("depth")
		maxPages, _ := cmd.Flags().GetInt("max-pages")

		// Step 2: Config check
		if cfg == nil {
			return fmt.Errorf("config not loaded. Run 'insightscout init' first to create config")
		}
		if depth == 0 {
			depth = cfg.Crawler.DefaultDepth
		}
		if maxPages == 0 {
			maxPages = cfg.Crawler.DefaultMaxPages
		}

		// Step 3: Build the crawl engine from config
		engine := crawler.New(crawler.Config{
			UserAgent:     cfg.Crawler.UserAgent,
			FetchTimeout:  parseDurationOr(cfg.Crawler.FetchTimeout, 10*time.Second),
			RobotsTimeout: parseDurationOr(cfg.Crawler.RobotsTimeout, 5*time.Second),
			MaxBodyBytes:  int64(cfg.Crawler.MaxBodyKB) * 1024,
		})

		// Step 4: Ctrl-C cancels the crawl and keeps partial results
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Printf("[*] Starting crawl of %s (depth %d, max pages %d)\n", targetURL, depth, maxPages)

		// Step 5: Run the crawl
		result, err := engine.Run(ctx, models.CrawlTarget{
			URL:      targetURL,
			MaxDepth: depth,
			MaxPages: maxPages,
		})
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		printSteps(result.Steps)

		// Step 6: Create the session directory
		sessionDir, err := storage.CreateSessionDir(cfg.ScanDir, result.Domain, result.StartedAt)
		if err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}

		// Step 7: Write markdown report
		reportPath := filepath.Join(sessionDir, "reports", "crawl.md")
		if err := report.WriteCrawlReport(result, reportPath); err != nil {
			// Warn but don't fail - raw data is still saved
			fmt.Printf("[!] Warning: failed to write report: %v\n", err)
		} else {
			fmt.Printf("[+] Report written to %s\n", reportPath)
		}

		// Step 8: Save raw output as JSON
		rawPath := filepath.Join(sessionDir, "raw", "crawl.json")
		rawData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling raw output: %w", err)
		}
		if err := os.WriteFile(rawPath, rawData, 0644); err != nil {
			return fmt.Errorf("writing raw output: %w", err)
		}

		// Step 9: Persist to the database. Failure is a warning; the crawl
		// itself succeeded and the files are on disk.
		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			fmt.Printf("[!] Warning: opening database: %v\n", err)
		} else {
			defer store.Close()
			if err := store.SaveCrawl(result); err != nil {
				fmt.Printf("[!] Warning: failed to persist crawl: %v\n", err)
			} else {
				fmt.Printf("[+] Crawl saved (ID: %s)\n", result.ID)
			}
		}

		// Step 10: Print final summary
		fmt.Println()
		fmt.Printf("[+] Crawl complete!\n")
		fmt.Printf("    Pages crawled: %d\n", result.PagesCrawled)
		fmt.Printf("    Internal links: %d\n", len(result.InternalLinks))
		fmt.Printf("    External links: %d\n", len(result.ExternalLinks))
		fmt.Printf("    Subdomains: %d\n", len(result.Subdomains))
		fmt.Printf("    Report: %s\n", reportPath)

		return nil
	},
}

func init() {
	crawlCmd.Flags().StringP("url", "u", "", "Target URL to crawl (required)")
	crawlCmd.Flags().Int("depth", 0, "Maximum crawl depth (default from config)")
	crawlCmd.Flags().Int("max-pages", 0, "Maximum pages to crawl (default from config)")

	crawlCmd.MarkFlagRequired("url")

	rootCmd.AddCommand(crawlCmd)
}
