// Package risk maps (port, banner) observations to a 0-100 heuristic score
// and names well-known services.
package risk

import "strings"

// sensitivePorts are services that should rarely face the open internet.
var sensitivePorts = map[int]bool{
	21:    true, // FTP
	22:    true, // SSH
	23:    true, // Telnet
	25:    true, // SMTP
	445:   true, // SMB
	1433:  true, // MSSQL
	3306:  true, // MySQL
	3389:  true, // RDP
	5432:  true, // PostgreSQL
	6379:  true, // Redis
	27017: true, // MongoDB
}

// databasePorts score an extra penalty on top of the sensitive-port one.
var databasePorts = map[int]bool{
	3306:  true,
	5432:  true,
	6379:  true,
	27017: true,
}

var weakBannerWords = []string{"default", "admin", "root", "test", "welcome", "unauthorized"}

var serviceNames = map[int]string{
	20:    "FTP-Data",
	21:    "FTP",
	22:    "SSH",
	23:    "Telnet",
	25:    "SMTP",
	53:    "DNS",
	80:    "HTTP",
	110:   "POP3",
	143:   "IMAP",
	443:   "HTTPS",
	445:   "SMB",
	465:   "SMTPS",
	587:   "SMTP-Submission",
	993:   "IMAPS",
	995:   "POP3S",
	1433:  "MSSQL",
	1521:  "Oracle",
	3306:  "MySQL",
	3389:  "RDP",
	5432:  "PostgreSQL",
	5900:  "VNC",
	6379:  "Redis",
	8000:  "HTTP-Alt",
	8080:  "HTTP-Proxy",
	8443:  "HTTPS-Alt",
	9200:  "Elasticsearch",
	11211: "Memcached",
	27017: "MongoDB",
}

// Score computes the risk score for an open port and its captured banner.
// Deterministic and side-effect-free; the result is always in [0, 100].
func Score(port int, banner string) int {
	score := 0
	lower := strings.ToLower(banner)

	if sensitivePorts[port] {
		score += 40
	}
	for _, w := range weakBannerWords {
		if strings.Contains(lower, w) {
			score += 20
			break
		}
	}
	if databasePorts[port] {
		score += 25
	}
	if strings.Contains(lower, "version") || strings.Contains(lower, "server:") {
		score += 15
	}

	if score > 100 {
		score = 100
	}
	return score
}

// ServiceName returns the conventional name for a port, or "Unknown".
func ServiceName(port int) string {
	if name, ok := serviceNames[port]; ok {
		return name
	}
	return "Unknown"
}
