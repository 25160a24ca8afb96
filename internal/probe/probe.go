// Package probe implements single-shot TCP port probing with best-effort
// banner capture.
package probe

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

const maxBannerBytes = 1024

// httpLikePorts are probed with a minimal HTTP request; other services are
// expected to volunteer a banner on connect.
var httpLikePorts = map[int]bool{
	80:   true,
	443:  true,
	8000: true,
	8080: true,
	8443: true,
}

// Result is the outcome of one probe attempt. Banner capture failure does
// not downgrade an open port.
type Result struct {
	Open   bool   `json:"open"`
	Banner string `json:"banner,omitempty"`
}

// TCPProber dials one TCP connection per probe. It never retries; the caller
// provides fan-out across ports and hosts.
type TCPProber struct {
	// DialTimeout bounds the connection attempt.
	DialTimeout time.Duration
	// ReadTimeout bounds the banner read after a successful connect.
	ReadTimeout time.Duration
}

// NewTCPProber returns a prober with the standard timeouts.
func NewTCPProber() *TCPProber {
	return &TCPProber{
		DialTimeout: 3 * time.Second,
		ReadTimeout: 3 * time.Second,
	}
}

// Probe attempts a TCP connection to ip:port. Connection failure of any kind
// (refused, timeout, unreachable) yields {Open: false}.
func (p *TCPProber) Probe(ctx context.Context, ip string, port int) Result {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))

	dialer := &net.Dialer{Timeout: p.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Result{Open: false}
	}
	defer conn.Close()

	if httpLikePorts[port] {
		req := fmt.Sprintf("GET / HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", ip)
		_ = conn.SetWriteDeadline(time.Now().Add(p.ReadTimeout))
		_, _ = conn.Write([]byte(req))
	}

	_ = conn.SetReadDeadline(time.Now().Add(p.ReadTimeout))
	buf := make([]byte, maxBannerBytes)
	n, _ := conn.Read(buf)

	banner := ""
	if n > 0 {
		banner = strings.TrimSpace(string(buf[:n]))
	}
	return Result{Open: true, Banner: banner}
}
