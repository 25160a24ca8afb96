package portscan

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/karthik0284-K/insight-scout/internal/geo"
	"github.com/karthik0284-K/insight-scout/internal/models"
	"github.com/karthik0284-K/insight-scout/internal/probe"
)

// fakeProber opens only the ports listed per IP.
type fakeProber struct {
	open   map[string][]int
	probes atomic.Int64
}

func (f *fakeProber) Probe(_ context.Context, ip string, port int) probe.Result {
	f.probes.Add(1)
	for _, p := range f.open[ip] {
		if p == port {
			return probe.Result{Open: true, Banner: "Server: nginx"}
		}
	}
	return probe.Result{Open: false}
}

type fakeLocator struct {
	loc *geo.Location
}

func (f *fakeLocator) Lookup(context.Context, string) *geo.Location { return f.loc }

func TestRunSingleHostOnlyHTTPSOpen(t *testing.T) {
	prober := &fakeProber{open: map[string][]int{"8.8.8.8": {443}}}
	locator := &fakeLocator{loc: &geo.Location{Country: "United States", City: "Mountain View", Org: "Google LLC", ASN: "AS15169"}}

	session, err := NewEngine(prober, locator).Run(context.Background(), "8.8.8.8", []int{53, 80, 443})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if session.HostsScanned != 1 {
		t.Errorf("hosts_scanned = %d, want 1", session.HostsScanned)
	}
	if session.TotalOpen != 1 || len(session.Findings) != 1 {
		t.Fatalf("expected exactly one finding, got %d (total_open %d)", len(session.Findings), session.TotalOpen)
	}

	f := session.Findings[0]
	if f.Port != 443 || f.Service != "HTTPS" || !f.Open {
		t.Errorf("finding = %+v, want open 443/HTTPS", f)
	}
	if f.Country != "United States" || f.Org != "Google LLC" {
		t.Errorf("geo fields not merged: %+v", f)
	}
	if f.RiskScore != 15 { // "Server: nginx" banner only
		t.Errorf("risk score = %d, want 15", f.RiskScore)
	}
	if session.Status != models.StatusComplete || session.CompletedAt == nil {
		t.Errorf("session not finalized: status=%s", session.Status)
	}
}

func TestRunClosedPortsLoggedNotRecorded(t *testing.T) {
	prober := &fakeProber{open: map[string][]int{}}
	session, err := NewEngine(prober, &fakeLocator{}).Run(context.Background(), "1.1.1.1", []int{80, 443})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(session.Findings) != 0 {
		t.Errorf("closed ports must not produce findings: %v", session.Findings)
	}
	closedLines := 0
	for _, s := range session.Steps {
		if strings.HasPrefix(s, models.PrefixNegative) && strings.Contains(s, "closed") {
			closedLines++
		}
	}
	if closedLines != 2 {
		t.Errorf("expected 2 closed-port log lines, got %d in %v", closedLines, session.Steps)
	}
}

func TestRunRejectsPrivateOnlyRange(t *testing.T) {
	prober := &fakeProber{}
	_, err := NewEngine(prober, &fakeLocator{}).Run(context.Background(), "192.168.1.1-5", []int{80})
	if err == nil {
		t.Fatal("expected error for private-only range")
	}
	if prober.probes.Load() != 0 {
		t.Errorf("no probes may be attempted against private space, got %d", prober.probes.Load())
	}
}

func TestRunInputValidation(t *testing.T) {
	e := NewEngine(&fakeProber{}, &fakeLocator{})
	cases := []struct {
		name    string
		ipRange string
		ports   []int
	}{
		{"empty range", "", []int{80}},
		{"empty ports", "8.8.8.8", nil},
		{"port zero", "8.8.8.8", []int{0}},
		{"port too high", "8.8.8.8", []int{70000}},
		{"garbage range", "hello", []int{80}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.Run(context.Background(), tc.ipRange, tc.ports); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRunRangeExpansionCoversAllPublicHosts(t *testing.T) {
	prober := &fakeProber{open: map[string][]int{"9.9.9.2": {22}}}
	session, err := NewEngine(prober, &fakeLocator{}).Run(context.Background(), "9.9.9.1-4", []int{22, 80})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if session.HostsScanned != 4 {
		t.Errorf("hosts_scanned = %d, want 4", session.HostsScanned)
	}
	if got := prober.probes.Load(); got != 8 {
		t.Errorf("probe count = %d, want 4 hosts x 2 ports", got)
	}
	if session.TotalOpen != 1 {
		t.Errorf("total_open = %d, want 1", session.TotalOpen)
	}
}

func TestRunCancellationReturnsPartialSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	prober := &cancellingProber{cancel: cancel}
	session, err := NewEngine(prober, &fakeLocator{}).Run(ctx, "9.9.9.1-8", []int{80})
	if err != nil {
		t.Fatalf("cancellation must not surface as an error: %v", err)
	}
	if session.HostsScanned >= 8 {
		t.Errorf("expected partial scan, got all %d hosts", session.HostsScanned)
	}
	found := false
	for _, s := range session.Steps {
		if strings.Contains(s, "cancelled by user") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing cancellation log entry in %v", session.Steps)
	}
}

// cancellingProber cancels the scan from inside the first probe.
type cancellingProber struct {
	cancel context.CancelFunc
}

func (c *cancellingProber) Probe(context.Context, string, int) probe.Result {
	c.cancel()
	return probe.Result{Open: false}
}

func TestRunMissingGeoDegradesSilently(t *testing.T) {
	prober := &fakeProber{open: map[string][]int{"8.8.8.8": {443}}}
	session, err := NewEngine(prober, &fakeLocator{loc: nil}).Run(context.Background(), "8.8.8.8", []int{443})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	f := session.Findings[0]
	if f.Country != "" || f.City != "" || f.ASN != "" {
		t.Errorf("expected empty geo fields, got %+v", f)
	}
	found := false
	for _, s := range session.Steps {
		if strings.HasPrefix(s, models.PrefixNegative) && strings.Contains(s, "no data") {
			found = true
		}
	}
	if !found {
		t.Error("missing geolocation no-data log entry")
	}
}

func TestSimulatedProberDeterministic(t *testing.T) {
	e := NewEngine(SimulatedProber{}, SimulatedLocator{})

	first, err := e.Run(context.Background(), "8.8.8.8", []int{22, 80, 443, 3306, 9999})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := e.Run(context.Background(), "8.8.8.8", []int{22, 80, 443, 3306, 9999})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if first.TotalOpen != 4 || second.TotalOpen != 4 {
		t.Errorf("simulated open counts = %d, %d; want 4", first.TotalOpen, second.TotalOpen)
	}
	for i := range first.Findings {
		a, b := first.Findings[i], second.Findings[i]
		if a.Port != b.Port || a.Banner != b.Banner || a.RiskScore != b.RiskScore {
			t.Errorf("simulated runs diverged: %+v vs %+v", a, b)
		}
	}
}
