package models

import (
	"time"

	"github.com/google/uuid"
)

// PortScanFinding is one open-port observation. Closed ports are logged in
// the session transcript but are not recorded as findings.
type PortScanFinding struct {
	IP        string  `json:"ip"`
	Port      int     `json:"port"`
	Open      bool    `json:"open"`
	Service   string  `json:"service"`
	Banner    string  `json:"banner,omitempty"`
	RiskScore int     `json:"risk_score"`
	Country   string  `json:"country,omitempty"`
	City      string  `json:"city,omitempty"`
	Org       string  `json:"org,omitempty"`
	ASN       string  `json:"asn,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// ScanSession groups all findings from one port-scan invocation together with
// its transcript and aggregate counts. A session is a write-once unit: the
// engine assembles it, hands it to the persistence layer, and never mutates
// it afterwards.
type ScanSession struct {
	ID           string            `json:"id"`
	Target       string            `json:"target"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
	Status       SessionStatus     `json:"status"`
	Findings     []PortScanFinding `json:"findings"`
	TotalOpen    int               `json:"total_open"`
	HostsScanned int               `json:"hosts_scanned"`
	Steps        []string          `json:"steps"`
}

// NewScanSession creates a scan session with initialized metadata.
func NewScanSession(target string) *ScanSession {
	return &ScanSession{
		ID:        uuid.New().String(),
		Target:    target,
		StartedAt: time.Now(),
		Status:    StatusPending,
		Findings:  []PortScanFinding{},
	}
}
