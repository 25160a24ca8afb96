package portscan

import (
	"context"

	"github.com/karthik0284-K/insight-scout/internal/geo"
	"github.com/karthik0284-K/insight-scout/internal/probe"
)

// SimulatedProber is a deterministic, network-free stand-in for TCPProber,
// selected only through the explicit --simulate flag (or the
// scanner.simulate config key). It is never substituted silently: the real
// network-backed prober remains the authoritative engine, and this fixture
// exists for demos and offline testing of everything downstream of the
// probe (scoring, logging, persistence, rendering).
type SimulatedProber struct{}

// simulatedBanners fixes which ports report open and what they answer with.
var simulatedBanners = map[int]string{
	21:   "220 ProFTPD 1.3.5 Server ready.",
	22:   "SSH-2.0-OpenSSH_7.2p2 Ubuntu-4ubuntu2.8",
	80:   "HTTP/1.1 200 OK\r\nServer: Apache/2.4.18 (Ubuntu)",
	443:  "HTTP/1.1 200 OK\r\nServer: nginx/1.10.3",
	3306: "5.7.33-0ubuntu0.16.04.1 mysql_native_password",
}

// Probe reports the fixture outcome for port; the IP is ignored.
func (SimulatedProber) Probe(_ context.Context, _ string, port int) probe.Result {
	if banner, ok := simulatedBanners[port]; ok {
		return probe.Result{Open: true, Banner: banner}
	}
	return probe.Result{Open: false}
}

// SimulatedLocator pairs with SimulatedProber so simulated scans stay fully
// offline. Every lookup resolves to the same fixture location.
type SimulatedLocator struct{}

// Lookup returns the fixture location for any IP.
func (SimulatedLocator) Lookup(_ context.Context, _ string) *geo.Location {
	return &geo.Location{
		Country:   "United States",
		City:      "Ashburn",
		Org:       "Example Hosting LLC",
		ASN:       "AS64500 Example Hosting LLC",
		Latitude:  39.0438,
		Longitude: -77.4874,
	}
}
