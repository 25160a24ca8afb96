package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karthik0284-K/insight-scout/internal/models"
)

// WriteScanReport generates a markdown report for a port scan session and
// writes it to the specified output path.
func WriteScanReport(session *models.ScanSession, outputPath string) error {
	var b strings.Builder

	b.WriteString("# Port Scan Report\n\n")
	b.WriteString(fmt.Sprintf("**Target:** %s\n", session.Target))
	b.WriteString(fmt.Sprintf("**Session:** %s\n", session.ID))
	b.WriteString(fmt.Sprintf("**Date:** %s\n", session.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("**Status:** %s | **Hosts scanned:** %d | **Open ports:** %d\n\n",
		session.Status, session.HostsScanned, session.TotalOpen))

	b.WriteString("## Open Ports\n\n")
	if len(session.Findings) > 0 {
		b.WriteString("| IP | Port | Service | Risk | Location | Org |\n")
		b.WriteString("|----|------|---------|------|----------|-----|\n")
		for _, f := range session.Findings {
			b.WriteString(fmt.Sprintf("| %s | %d/tcp | %s | %d | %s | %s |\n",
				f.IP, f.Port, f.Service, f.RiskScore, formatLocation(f), orDash(f.Org)))
		}
	} else {
		b.WriteString("No open ports found.\n")
	}
	b.WriteString("\n")

	banners := false
	b.WriteString("## Banners\n\n")
	for _, f := range session.Findings {
		if f.Banner == "" {
			continue
		}
		banners = true
		b.WriteString(fmt.Sprintf("### %s:%d\n\n```\n%s\n```\n\n", f.IP, f.Port, f.Banner))
	}
	if !banners {
		b.WriteString("No banners captured.\n\n")
	}

	if high := highRiskFindings(session.Findings); len(high) > 0 {
		b.WriteString("## High Risk (score >= 60)\n\n")
		for _, f := range high {
			b.WriteString(fmt.Sprintf("- **%s:%d** (%s) scored %d\n", f.IP, f.Port, f.Service, f.RiskScore))
		}
		b.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}
	return os.WriteFile(outputPath, []byte(b.String()), 0644)
}

func highRiskFindings(findings []models.PortScanFinding) []models.PortScanFinding {
	var high []models.PortScanFinding
	for _, f := range findings {
		if f.RiskScore >= 60 {
			high = append(high, f)
		}
	}
	return high
}

func formatLocation(f models.PortScanFinding) string {
	switch {
	case f.City != "" && f.Country != "":
		return fmt.Sprintf("%s, %s", f.City, f.Country)
	case f.Country != "":
		return f.Country
	default:
		return "-"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
