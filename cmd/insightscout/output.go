package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/karthik0284-K/insight-scout/internal/models"
)

// Color functions for terminal output
var (
	colorCyan   = color.New(color.FgCyan).SprintFunc()
	colorBlue   = color.New(color.FgBlue).SprintFunc()
	colorGreen  = color.New(color.FgGreen).SprintFunc()
	colorYellow = color.New(color.FgYellow).SprintFunc()
	colorRed    = color.New(color.FgRed).SprintFunc()
)

// printSteps renders an engine step log with per-prefix colors. Negative
// entries (closed ports, skipped URLs) are noise at default verbosity and
// only show with --verbose.
func printSteps(steps []string) {
	for _, step := range steps {
		switch {
		case strings.HasPrefix(step, models.PrefixMilestone):
			fmt.Println(colorCyan(step))
		case strings.HasPrefix(step, models.PrefixSuccess):
			fmt.Println(colorGreen(step))
		case strings.HasPrefix(step, models.PrefixWarn):
			fmt.Println(colorYellow(step))
		case strings.HasPrefix(step, models.PrefixNegative):
			if verbose {
				fmt.Println(colorRed(step))
			}
		default:
			fmt.Println(colorBlue(step))
		}
	}
}

// parseDurationOr parses a config duration string, falling back to def when
// empty or malformed.
func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
