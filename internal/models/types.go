package models

import "fmt"

// SessionStatus represents the current state of a scan or crawl session
type SessionStatus string

const (
	StatusPending  SessionStatus = "pending"
	StatusRunning  SessionStatus = "running"
	StatusComplete SessionStatus = "complete"
	StatusFailed   SessionStatus = "failed"
)

// Step-log prefixes. Every externally visible log line starts with one of
// these; consumers key their rendering off the prefix, so the mapping is part
// of the output contract.
const (
	PrefixMilestone = "[*]"
	PrefixInfo      = "[+]"
	PrefixSuccess   = "[✓]"
	PrefixWarn      = "[!]"
	PrefixNegative  = "[-]"
)

// StepLog is an ordered, append-only transcript of notable events during a
// scan or crawl. The UI replays it verbatim, so entries are fully formatted
// strings rather than structured records.
type StepLog struct {
	entries []string
}

// Addf appends a formatted entry under the given prefix.
func (l *StepLog) Addf(prefix, format string, args ...any) {
	l.entries = append(l.entries, prefix+" "+fmt.Sprintf(format, args...))
}

// Entries returns the accumulated log lines in append order.
func (l *StepLog) Entries() []string {
	return l.entries
}

// Len returns the number of entries logged so far.
func (l *StepLog) Len() int {
	return len(l.entries)
}
