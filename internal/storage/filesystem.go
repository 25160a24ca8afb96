package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// SanitizeTarget replaces characters unsafe for filesystem paths.
// Allows alphanumeric, dots, and hyphens; everything else becomes underscore.
func SanitizeTarget(target string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9.\-]+`)
	return re.ReplaceAllString(target, "_")
}

// SessionDirPath generates a consistent directory path for a session.
// Format: {baseDir}/{target}_{YYYYMMDD}_{HHMMSS}
func SessionDirPath(baseDir, target string, startedAt time.Time) string {
	sanitized := SanitizeTarget(target)
	timestamp := startedAt.Format("20060102_150405")
	return filepath.Join(baseDir, fmt.Sprintf("%s_%s", sanitized, timestamp))
}

// CreateSessionDir creates a session directory with subdirectories for
// reports and raw output.
func CreateSessionDir(baseDir, target string, startedAt time.Time) (string, error) {
	sessionPath := SessionDirPath(baseDir, target, startedAt)

	if err := EnsureDir(sessionPath); err != nil {
		return "", err
	}
	if err := EnsureDir(filepath.Join(sessionPath, "reports")); err != nil {
		return "", err
	}
	if err := EnsureDir(filepath.Join(sessionPath, "raw")); err != nil {
		return "", err
	}

	return sessionPath, nil
}

// EnsureDir creates a directory and all parent directories if they don't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
