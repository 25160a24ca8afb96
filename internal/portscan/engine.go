// Package portscan orchestrates concurrent TCP port scanning across an
// expanded IP range, enriching open ports with service names, risk scores
// and geolocation data.
package portscan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/geo"
	"github.com/karthik0284-K/insight-scout/internal/iprange"
	"github.com/karthik0284-K/insight-scout/internal/models"
	"github.com/karthik0284-K/insight-scout/internal/probe"
	"github.com/karthik0284-K/insight-scout/internal/risk"
)

// Prober is the minimal port-probe contract required by the engine. Using an
// interface keeps the engine testable without real sockets and makes the
// simulated mode an explicit, separate implementation.
type Prober interface {
	Probe(ctx context.Context, ip string, port int) probe.Result
}

// Locator resolves an IP to geolocation metadata, or nil when unavailable.
type Locator interface {
	Lookup(ctx context.Context, ip string) *geo.Location
}

// Engine runs port scans. Each Run call owns its own session and result
// accumulator; concurrent Runs are fully independent.
type Engine struct {
	prober  Prober
	locator Locator
}

// NewEngine creates an engine with the given collaborators.
func NewEngine(p Prober, l Locator) *Engine {
	return &Engine{prober: p, locator: l}
}

// Run expands ipRange, probes every port on every public candidate, and
// returns the assembled session. Bad input (empty range, empty or invalid
// port list, no public addresses) returns an error with no partial work.
// Cancellation mid-scan returns the partial session with a distinct log
// entry, not an error.
//
// Concurrency: for each IP, the geolocation lookup and all per-port probes
// run concurrently, then the engine barrier-waits before moving to the next
// IP. Total fan-out is bounded by the range cap times the port list size.
func (e *Engine) Run(ctx context.Context, ipRange string, ports []int) (*models.ScanSession, error) {
	// Step 1: Validate input.
	if ipRange == "" {
		return nil, fmt.Errorf("ip_range is required")
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("at least one port is required")
	}
	for _, p := range ports {
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("invalid port %d: must be in 1-65535", p)
		}
	}

	// Step 2: Expand the range.
	candidates := iprange.Expand(ipRange)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("invalid IP range %q", ipRange)
	}

	// Step 3: Keep only public unicast addresses.
	public, rejected := iprange.FilterPublic(candidates)

	session := models.NewScanSession(ipRange)
	session.Status = models.StatusRunning
	log := &models.StepLog{}
	log.Addf(models.PrefixMilestone, "Session %s: scanning %s (%d candidate hosts, %d ports each)",
		shortID(session.ID), ipRange, len(candidates), len(ports))

	for _, ip := range rejected {
		log.Addf(models.PrefixWarn, "Skipping %s: private or reserved address", ip)
	}
	if len(public) == 0 {
		return nil, fmt.Errorf("no public addresses in range %q", ipRange)
	}

	// Step 4: Scan each host; per host, geolocation and all port probes run
	// concurrently behind one barrier.
	start := time.Now()
	cancelled := false

	for _, ip := range public {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		log.Addf(models.PrefixInfo, "Scanning host %s", ip)
		results, loc := e.scanHost(ctx, ip, ports)
		session.HostsScanned++

		if loc != nil {
			log.Addf(models.PrefixSuccess, "Geolocation %s: %s, %s (%s)", ip, loc.City, loc.Country, loc.Org)
		} else {
			log.Addf(models.PrefixNegative, "Geolocation %s: no data", ip)
		}

		for i, port := range ports {
			res := results[i]
			if !res.Open {
				log.Addf(models.PrefixNegative, "Port %d/tcp closed on %s", port, ip)
				continue
			}

			service := risk.ServiceName(port)
			finding := models.PortScanFinding{
				IP:        ip,
				Port:      port,
				Open:      true,
				Service:   service,
				Banner:    res.Banner,
				RiskScore: risk.Score(port, res.Banner),
			}
			if loc != nil {
				finding.Country = loc.Country
				finding.City = loc.City
				finding.Org = loc.Org
				finding.ASN = loc.ASN
				finding.Latitude = loc.Latitude
				finding.Longitude = loc.Longitude
			}
			session.Findings = append(session.Findings, finding)
			session.TotalOpen++
			log.Addf(models.PrefixSuccess, "Port %d/tcp open on %s: %s (risk %d)",
				port, ip, service, finding.RiskScore)
		}
	}

	// Step 5: Finalize the session.
	if cancelled {
		log.Addf(models.PrefixWarn, "Scan cancelled by user after %d of %d hosts; returning partial results",
			session.HostsScanned, len(public))
	}
	log.Addf(models.PrefixMilestone, "Scan complete in %s: %d hosts scanned, %d open ports",
		time.Since(start).Round(time.Millisecond), session.HostsScanned, session.TotalOpen)

	session.Steps = log.Entries()
	session.Status = models.StatusComplete
	now := time.Now()
	session.CompletedAt = &now
	return session, nil
}

// scanHost probes all ports on one host concurrently, alongside a single
// geolocation lookup, and waits for every goroutine before returning.
// Results are positionally aligned with ports.
func (e *Engine) scanHost(ctx context.Context, ip string, ports []int) ([]probe.Result, *geo.Location) {
	results := make([]probe.Result, len(ports))
	var loc *geo.Location

	done := make(chan struct{})
	go func() {
		loc = e.locator.Lookup(ctx, ip)
		close(done)
	}()

	var wg sync.WaitGroup
	for i, port := range ports {
		wg.Add(1)
		go func(i, port int) {
			defer wg.Done()
			results[i] = e.prober.Probe(ctx, ip, port)
		}(i, port)
	}
	wg.Wait()
	<-done

	return results, loc
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
