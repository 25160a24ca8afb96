package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/geo"
	"github.com/karthik0284-K/insight-scout/internal/portscan"
	"github.com/karthik0284-K/insight-scout/internal/probe"
	"github.com/karthik0284-K/insight-scout/internal/report"
	"github.com/karthik0284-K/insight-scout/internal/storage"
	"github.com/spf13/cobra"
)

var portscanCmd = &cobra.Command{
	Use:   "portscan",
	Short: "Scan an IP range for open TCP ports",
	Long: `Scan every public address in an IP range for open TCP ports.

The range accepts a single address (8.8.8.8) or a dash range (1.2.3.1-5,
1.2.3.1-1.2.3.5), capped at 16 hosts. Private and reserved addresses are
skipped. Each open port is banner-grabbed, mapped to a service name, scored
for risk (0-100) and enriched with geolocation data.

With --simulate, a deterministic offline prober replaces the network; use it
for demos and for exercising reports without touching real hosts.

Results are saved to:
  - {scan_dir}/{target}_{timestamp}/reports/scan.md (report)
  - {scan_dir}/{target}_{timestamp}/raw/scan.json (raw data)

Session metadata and findings are stored in the configured database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Step 1: Get flags
		ipRange, _ := cmd.Flags().GetString("ip-range")
		portsFlag, _ := cmd.Flags().GetString("ports")
		simulate, _ := cmd.Flags().GetBool("simulate")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		// Step 2: Config check
		if cfg == nil {
			return fmt.Errorf("config not loaded. Run 'insightscout init' first to create config")
		}

		// Step 3: Resolve the port list
		ports := cfg.Scanner.DefaultPorts
		if portsFlag != "" {
			var err error
			ports, err = parsePorts(portsFlag)
			if err != nil {
				return err
			}
		}

		// Step 4: Pick collaborators. Simulated mode is explicit, never a
		// silent fallback.
		var (
			prober  portscan.Prober
			locator portscan.Locator
		)
		if simulate || cfg.Scanner.Simulate {
			fmt.Println("[!] Simulated mode: no packets will leave this machine")
			prober = portscan.SimulatedProber{}
			locator = portscan.SimulatedLocator{}
		} else {
			prober = &probe.TCPProber{
				DialTimeout: parseDurationOr(cfg.Scanner.DialTimeout, 3*time.Second),
				ReadTimeout: parseDurationOr(cfg.Scanner.ReadTimeout, 3*time.Second),
			}
			locator = geo.NewClient(cfg.Geo.Endpoint)
		}

		// Step 5: Ctrl-C cancels the scan and keeps partial results
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		fmt.Printf("[*] Starting port scan of %s (%d ports)\n", ipRange, len(ports))

		// Step 6: Run the scan
		engine := portscan.NewEngine(prober, locator)
		session, err := engine.Run(ctx, ipRange, ports)
		if err != nil {
			return fmt.Errorf("port scan failed: %w", err)
		}

		printSteps(session.Steps)

		// Step 7: Create the session directory
		sessionDir, err := storage.CreateSessionDir(cfg.ScanDir, session.Target, session.StartedAt)
		if err != nil {
			return fmt.Errorf("creating session directory: %w", err)
		}

		// Step 8: Write markdown report
		reportPath := filepath.Join(sessionDir, "reports", "scan.md")
		if err := report.WriteScanReport(session, reportPath); err != nil {
			// Warn but don't fail - raw data is still saved
			fmt.Printf("[!] Warning: failed to write report: %v\n", err)
		} else {
			fmt.Printf("[+] Report written to %s\n", reportPath)
		}

		// Step 9: Save raw output as JSON
		rawPath := filepath.Join(sessionDir, "raw", "scan.json")
		rawData, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling raw output: %w", err)
		}
		if err := os.WriteFile(rawPath, rawData, 0644); err != nil {
			return fmt.Errorf("writing raw output: %w", err)
		}

		// Step 10: Persist session and findings. Failure is a warning; the
		// scan itself succeeded and the files are on disk.
		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			fmt.Printf("[!] Warning: opening database: %v\n", err)
		} else {
			defer store.Close()
			if err := store.SaveSession(session); err != nil {
				fmt.Printf("[!] Warning: failed to persist session: %v\n", err)
			} else if err := store.SaveFindings(session.ID, session.Findings); err != nil {
				fmt.Printf("[!] Warning: failed to persist findings: %v\n", err)
			} else {
				fmt.Printf("[+] Session saved (ID: %s)\n", session.ID)
			}
		}

		// Step 11: Print final summary
		fmt.Println()
		fmt.Printf("[+] Port scan complete!\n")
		fmt.Printf("    Hosts scanned: %d\n", session.HostsScanned)
		fmt.Printf("    Open ports: %d\n", session.TotalOpen)
		fmt.Printf("    Report: %s\n", reportPath)

		return nil
	},
}

// parsePorts parses a comma-separated port list like "22,80,443".
func parsePorts(s string) ([]int, error) {
	var ports []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", part)
		}
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid port %d: must be in 1-65535", p)
		}
		ports = append(ports, p)
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("no ports in %q", s)
	}
	return ports, nil
}

func init() {
	portscanCmd.Flags().StringP("ip-range", "r", "", "IP range to scan (required)")
	portscanCmd.Flags().StringP("ports", "p", "", "Comma-separated port list (default from config)")
	portscanCmd.Flags().Bool("simulate", false, "Use the offline simulated prober")
	portscanCmd.Flags().Duration("timeout", 30*time.Minute, "Overall timeout")

	portscanCmd.MarkFlagRequired("ip-range")

	rootCmd.AddCommand(portscanCmd)
}
