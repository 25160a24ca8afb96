// Package iprange expands IP range expressions into bounded candidate lists
// and classifies addresses as public or private/reserved.
package iprange

import (
	"strconv"
	"strings"
)

// MaxCandidates caps how many addresses a single expression may expand to,
// regardless of the requested range width.
const MaxCandidates = 16

// Expand parses expr — either a single dotted-quad IP or "start-end" where
// end is a full dotted-quad or a bare final octet — and returns the inclusive
// candidate list, capped at MaxCandidates. A malformed expression returns an
// empty slice rather than an error so callers can treat "nothing to scan" and
// "unparseable" uniformly.
func Expand(expr string) []string {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}

	start, end, ok := splitRange(expr)
	if !ok {
		return nil
	}

	startN, ok := packIP(start)
	if !ok {
		return nil
	}
	endN, ok := packIP(end)
	if !ok {
		return nil
	}
	if endN < startN {
		return nil
	}

	var out []string
	for n := startN; n <= endN; n++ {
		out = append(out, unpackIP(n))
		if len(out) >= MaxCandidates {
			break
		}
	}
	return out
}

// FilterPublic returns the subset of candidates that pass IsPublic,
// preserving order, plus the rejected remainder.
func FilterPublic(candidates []string) (public, rejected []string) {
	for _, ip := range candidates {
		if IsPublic(ip) {
			public = append(public, ip)
		} else {
			rejected = append(rejected, ip)
		}
	}
	return public, rejected
}

// IsPublic reports whether ip is unambiguously public unicast space.
// This is an allow-by-exclusion policy: anything malformed, private
// (RFC1918), loopback, "this network" or multicast/reserved is rejected.
func IsPublic(ip string) bool {
	octets, ok := parseOctets(ip)
	if !ok {
		return false
	}

	switch {
	case octets[0] == 10:
		return false // 10.0.0.0/8
	case octets[0] == 172 && octets[1] >= 16 && octets[1] <= 31:
		return false // 172.16.0.0/12
	case octets[0] == 192 && octets[1] == 168:
		return false // 192.168.0.0/16
	case octets[0] == 127:
		return false // loopback
	case octets[0] == 0:
		return false // "this network"
	case octets[0] >= 224:
		return false // multicast + reserved
	}
	return true
}

// splitRange separates "start-end" expressions. The end side may be a full
// dotted-quad or a bare final octet, which inherits the start's first three
// octets ("1.2.3.1-5" means 1.2.3.1 through 1.2.3.5).
func splitRange(expr string) (start, end string, ok bool) {
	idx := strings.Index(expr, "-")
	if idx < 0 {
		return expr, expr, true
	}

	start = strings.TrimSpace(expr[:idx])
	endPart := strings.TrimSpace(expr[idx+1:])
	if start == "" || endPart == "" {
		return "", "", false
	}

	if strings.Contains(endPart, ".") {
		return start, endPart, true
	}

	// Bare final octet: splice onto the start's prefix.
	lastDot := strings.LastIndex(start, ".")
	if lastDot < 0 {
		return "", "", false
	}
	return start, start[:lastDot+1] + endPart, true
}

// packIP converts a dotted-quad into a big-endian 32-bit integer.
func packIP(ip string) (uint32, bool) {
	octets, ok := parseOctets(ip)
	if !ok {
		return 0, false
	}
	return uint32(octets[0])<<24 | uint32(octets[1])<<16 | uint32(octets[2])<<8 | uint32(octets[3]), true
}

func unpackIP(n uint32) string {
	return strconv.Itoa(int(n>>24)) + "." +
		strconv.Itoa(int(n>>16&0xff)) + "." +
		strconv.Itoa(int(n>>8&0xff)) + "." +
		strconv.Itoa(int(n&0xff))
}

func parseOctets(ip string) ([4]int, bool) {
	var octets [4]int
	parts := strings.Split(strings.TrimSpace(ip), ".")
	if len(parts) != 4 {
		return octets, false
	}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return octets, false
		}
		octets[i] = v
	}
	return octets, true
}
