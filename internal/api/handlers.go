package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/karthik0284-K/insight-scout/internal/models"
)

type crawlRequest struct {
	URL      string `json:"url"`
	Depth    int    `json:"depth"`
	MaxPages int    `json:"max_pages"`
}

type scanRequest struct {
	IPRange string `json:"ip_range"`
	Ports   []int  `json:"ports"`
}

type scanResponse struct {
	SessionID    string                   `json:"session_id"`
	Target       string                   `json:"target"`
	Status       models.SessionStatus     `json:"status"`
	HostsScanned int                      `json:"hosts_scanned"`
	TotalOpen    int                      `json:"total_open"`
	Results      []models.PortScanFinding `json:"results"`
	Steps        []string                 `json:"steps"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCrawl runs a crawl synchronously and returns the full result.
// POST /api/crawl {"url": "...", "depth": 2, "max_pages": 50}
func (s *Server) handleCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req crawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.Depth < 1 || req.Depth > 5 {
		writeError(w, http.StatusBadRequest, "depth must be in 1-5")
		return
	}
	if req.MaxPages < 1 || req.MaxPages > 100 {
		writeError(w, http.StatusBadRequest, "max_pages must be in 1-100")
		return
	}

	result, err := s.crawler.Run(r.Context(), models.CrawlTarget{
		URL:      req.URL,
		MaxDepth: req.Depth,
		MaxPages: req.MaxPages,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Persistence failure downgrades to a warning; the caller still gets
	// the in-memory result.
	if err := s.store.SaveCrawl(result); err != nil {
		log.Printf("[API] Failed to persist crawl %s: %v", result.ID, err)
	}

	writeJSON(w, http.StatusOK, result)
}

// handleScan runs a port scan synchronously and returns the session.
// POST /api/scan {"ip_range": "1.2.3.1-5", "ports": [22, 80, 443]}
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	ports := req.Ports
	if len(ports) == 0 {
		ports = s.defaultPorts
	}

	session, err := s.scanner.Run(r.Context(), req.IPRange, ports)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveSession(session); err != nil {
		log.Printf("[API] Failed to persist session %s: %v", session.ID, err)
	} else if err := s.store.SaveFindings(session.ID, session.Findings); err != nil {
		log.Printf("[API] Failed to persist findings for session %s: %v", session.ID, err)
	}

	writeJSON(w, http.StatusOK, scanResponse{
		SessionID:    session.ID,
		Target:       session.Target,
		Status:       session.Status,
		HostsScanned: session.HostsScanned,
		TotalOpen:    session.TotalOpen,
		Results:      session.Findings,
		Steps:        session.Steps,
	})
}

// handleListSessions lists scan sessions for a target, newest first.
// GET /api/sessions?target=8.8.8.8
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	target := r.URL.Query().Get("target")
	if target == "" {
		writeError(w, http.StatusBadRequest, "target query parameter is required")
		return
	}

	sessions, err := s.store.ListSessions(target)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	if sessions == nil {
		sessions = []*models.ScanSession{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleGetSession returns one session by ID.
// GET /api/sessions/{id}
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid session ID")
		return
	}

	session, err := s.store.GetSession(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	if session == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleListCrawls lists crawl results for a domain, newest first.
// GET /api/crawls?domain=example.com
func (s *Server) handleListCrawls(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, http.StatusBadRequest, "domain query parameter is required")
		return
	}

	crawls, err := s.store.ListCrawls(domain)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list crawls")
		return
	}
	if crawls == nil {
		crawls = []*models.CrawlResult{}
	}
	writeJSON(w, http.StatusOK, crawls)
}

// handleGetCrawl returns one crawl result by ID.
// GET /api/crawls/{id}
func (s *Server) handleGetCrawl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/crawls/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid crawl ID")
		return
	}

	result, err := s.store.GetCrawl(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load crawl")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "crawl not found")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
