// Package api exposes the crawl and scan engines over an HTTP JSON API.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/karthik0284-K/insight-scout/internal/crawler"
	"github.com/karthik0284-K/insight-scout/internal/models"
	"github.com/karthik0284-K/insight-scout/internal/portscan"
)

// Store is the persistence contract the API server needs. The bolt-backed
// store satisfies it; tests substitute fakes.
type Store interface {
	SaveCrawl(result *models.CrawlResult) error
	SaveSession(session *models.ScanSession) error
	SaveFindings(sessionID string, findings []models.PortScanFinding) error
	GetSession(id string) (*models.ScanSession, error)
	ListSessions(target string) ([]*models.ScanSession, error)
	GetCrawl(id string) (*models.CrawlResult, error)
	ListCrawls(domain string) ([]*models.CrawlResult, error)
}

// Server wires the engines and store behind HTTP handlers.
type Server struct {
	crawler *crawler.Engine
	scanner *portscan.Engine
	store   Store

	defaultPorts []int
}

// NewServer creates a server. defaultPorts is used by scan requests that omit
// a port list.
func NewServer(c *crawler.Engine, s *portscan.Engine, store Store, defaultPorts []int) *Server {
	return &Server{crawler: c, scanner: s, store: store, defaultPorts: defaultPorts}
}

// Routes builds the request mux.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/crawl", s.handleCrawl)
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/sessions", s.handleListSessions)
	mux.HandleFunc("/api/sessions/", s.handleGetSession) // trailing slash matches /api/sessions/{id}
	mux.HandleFunc("/api/crawls", s.handleListCrawls)
	mux.HandleFunc("/api/crawls/", s.handleGetCrawl)
	return mux
}

// ListenAndServe runs the server until SIGINT or SIGTERM, then shuts down
// gracefully with a five second drain window.
func (s *Server) ListenAndServe(port int) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	log.Printf("[API] Listening on http://localhost:%d", port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Printf("[API] Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
