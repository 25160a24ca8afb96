package main

import (
	"fmt"

	"github.com/karthik0284-K/insight-scout/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "insightscout",
	Short: "Web crawling and port scanning reconnaissance toolkit",
	Long: `InsightScout maps the attack surface of a target from two directions:
a breadth-first web crawler that classifies links, discovers subdomains and
flags injection points, and a concurrent TCP port scanner that grabs banners,
geolocates hosts and scores each open port for risk.

Results are persisted to a local database and rendered as markdown reports.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		skipConfig := map[string]bool{
			"init":    true,
			"help":    true,
			"version": true,
		}

		if skipConfig[cmd.Name()] {
			return nil
		}

		if cfgFile != "" {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		}

		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "insightscout.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	rootCmd.Version = "0.1.0-dev"
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
