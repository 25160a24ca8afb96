// Package geo resolves public IPs to coarse geographic and organizational
// metadata via the ip-api.com JSON endpoint.
package geo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// DefaultEndpoint is the lookup service base URL. The IP is appended as the
// final path segment.
const DefaultEndpoint = "http://ip-api.com/json"

const userAgent = "insight-scout/1.0"

// Location is the normalized subset of lookup fields attached to findings.
type Location struct {
	Country   string  `json:"country"`
	City      string  `json:"city"`
	Org       string  `json:"org"`
	ASN       string  `json:"asn"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client queries the geolocation service. Lookups are best-effort
// enrichment: every failure mode returns nil, never an error, so a dead
// lookup service can never fail a scan.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a client against endpoint; empty means DefaultEndpoint.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// apiResponse mirrors the ip-api.com reply envelope. Failures are signalled
// in-band via the status field.
type apiResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Country string  `json:"country"`
	City    string  `json:"city"`
	ISP     string  `json:"isp"`
	Org     string  `json:"org"`
	AS      string  `json:"as"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Lookup resolves ip to a Location, or nil when no data is available.
func (c *Client) Lookup(ctx context.Context, ip string) *Location {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/"+ip, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil
	}

	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil
	}
	if r.Status != "success" {
		return nil
	}

	org := r.Org
	if org == "" {
		org = r.ISP
	}
	return &Location{
		Country:   r.Country,
		City:      r.City,
		Org:       org,
		ASN:       r.AS,
		Latitude:  r.Lat,
		Longitude: r.Lon,
	}
}
