package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/karthik0284-K/insight-scout/internal/config"
	"github.com/karthik0284-K/insight-scout/internal/storage"
	"github.com/spf13/cobra"
)

var (
	initForce bool
	initDir   string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize insightscout with default configuration",
	Long: `Creates a default configuration file (insightscout.yaml), initializes the
scan directory structure, and sets up the database for storing results.

This is typically the first command you run when setting up insightscout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := filepath.Join(initDir, "insightscout.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists at %s. Use --force to overwrite", configPath)
		}

		// Create default config
		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		fmt.Printf("Created %s with default configuration\n", configPath)

		// Load the config we just created to get paths
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Create scan directory
		if err := storage.EnsureDir(cfg.ScanDir); err != nil {
			return fmt.Errorf("failed to create scan directory: %w", err)
		}
		fmt.Printf("Created scan directory: %s\n", cfg.ScanDir)

		// Initialize database
		store, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer store.Close()
		fmt.Printf("Initialized database: %s\n", cfg.DBPath)

		// Print success message
		fmt.Println()
		fmt.Println("InsightScout initialized successfully!")
		fmt.Println("Run 'insightscout crawl -u https://example.com' to map a site,")
		fmt.Println("or 'insightscout portscan -r 8.8.8.8' to scan a host.")

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	initCmd.Flags().StringVar(&initDir, "dir", ".", "output directory")
	rootCmd.AddCommand(initCmd)
}
