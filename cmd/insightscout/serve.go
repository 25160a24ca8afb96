package main

import (
	"fmt"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/api"
	"github.com/karthik0284-K/insight-scout/internal/crawler"
	"github.com/karthik0284-K/insight-scout/internal/geo"
	"github.com/karthik0284-K/insight-scout/internal/portscan"
	"github.com/karthik0284-K/insight-scout/internal/probe"
	"github.com/karthik0284-K/insight-scout/internal/storage"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP JSON API server",
	Long: `Expose the crawl and scan engines over an HTTP JSON API.

Endpoints:
  POST /api/crawl          run a crawl  {"url", "depth", "max_pages"}
  POST /api/scan           run a scan   {"ip_range", "ports"}
  GET  /api/sessions       list scan sessions (?target=)
  GET  /api/sessions/{id}  fetch one session
  GET  /api/crawls         list crawls (?domain=)
  GET  /api/crawls/{id}    fetch one crawl
  GET  /api/health         liveness check

The server shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		port, _ := cmd.Flags().GetInt("port")
		simulate, _ := cmd.Flags().GetBool("simulate")

		// Step 2: Config check
		if cfg == nil {
			return fmt.Errorf("config not loaded. Run 'insightscout init' first to create config")
		}

		// Step 3: Open the database; the API server requires persistence
		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		// Step 4: Build the engines from config
		crawlEngine := crawler.New(crawler.Config{
			UserAgent:     cfg.Crawler.UserAgent,
			FetchTimeout:  parseDurationOr(cfg.Crawler.FetchTimeout, 10*time.Second),
			RobotsTimeout: parseDurationOr(cfg.Crawler.RobotsTimeout, 5*time.Second),
			MaxBodyBytes:  int64(cfg.Crawler.MaxBodyKB) * 1024,
		})

		var (
			prober  portscan.Prober
			locator portscan.Locator
		)
		if simulate || cfg.Scanner.Simulate {
			fmt.Println("[!] Simulated mode: scan requests will use the offline prober")
			prober = portscan.SimulatedProber{}
			locator = portscan.SimulatedLocator{}
		} else {
			prober = &probe.TCPProber{
				DialTimeout: parseDurationOr(cfg.Scanner.DialTimeout, 3*time.Second),
				ReadTimeout: parseDurationOr(cfg.Scanner.ReadTimeout, 3*time.Second),
			}
			locator = geo.NewClient(cfg.Geo.Endpoint)
		}
		scanEngine := portscan.NewEngine(prober, locator)

		// Step 5: Serve until interrupted
		server := api.NewServer(crawlEngine, scanEngine, store, cfg.Scanner.DefaultPorts)
		return server.ListenAndServe(port)
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Listen port")
	serveCmd.Flags().Bool("simulate", false, "Use the offline simulated prober for scan requests")

	rootCmd.AddCommand(serveCmd)
}
