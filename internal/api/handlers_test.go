package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/karthik0284-K/insight-scout/internal/crawler"
	"github.com/karthik0284-K/insight-scout/internal/geo"
	"github.com/karthik0284-K/insight-scout/internal/models"
	"github.com/karthik0284-K/insight-scout/internal/portscan"
	"github.com/karthik0284-K/insight-scout/internal/probe"
)

type fakeProber struct {
	openPorts map[int]string
}

func (f *fakeProber) Probe(_ context.Context, _ string, port int) probe.Result {
	banner, ok := f.openPorts[port]
	if !ok {
		return probe.Result{}
	}
	return probe.Result{Open: true, Banner: banner}
}

type fakeLocator struct{}

func (fakeLocator) Lookup(context.Context, string) *geo.Location { return nil }

type fakeStore struct {
	sessions map[string]*models.ScanSession
	crawls   map[string]*models.CrawlResult
	findings map[string][]models.PortScanFinding
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: make(map[string]*models.ScanSession),
		crawls:   make(map[string]*models.CrawlResult),
		findings: make(map[string][]models.PortScanFinding),
	}
}

func (f *fakeStore) SaveCrawl(r *models.CrawlResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.crawls[r.ID] = r
	return nil
}

func (f *fakeStore) SaveSession(s *models.ScanSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeStore) SaveFindings(id string, fs []models.PortScanFinding) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.findings[id] = fs
	return nil
}

func (f *fakeStore) GetSession(id string) (*models.ScanSession, error) {
	return f.sessions[id], nil
}

func (f *fakeStore) ListSessions(target string) ([]*models.ScanSession, error) {
	var out []*models.ScanSession
	for _, s := range f.sessions {
		if s.Target == target {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) GetCrawl(id string) (*models.CrawlResult, error) {
	return f.crawls[id], nil
}

func (f *fakeStore) ListCrawls(domain string) ([]*models.CrawlResult, error) {
	var out []*models.CrawlResult
	for _, r := range f.crawls {
		if r.Domain == domain {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestServer(store Store) *Server {
	scanner := portscan.NewEngine(&fakeProber{openPorts: map[int]string{443: ""}}, fakeLocator{})
	return NewServer(crawler.New(crawler.Config{}), scanner, store, []int{80, 443})
}

func TestScanHandler(t *testing.T) {
	store := newFakeStore()
	srv := httptest.NewServer(newTestServer(store).Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/scan", "application/json",
		strings.NewReader(`{"ip_range": "8.8.8.8", "ports": [80, 443]}`))
	if err != nil {
		t.Fatalf("POST /api/scan: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var body scanResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if body.SessionID == "" {
		t.Error("session_id missing")
	}
	if body.TotalOpen != 1 || len(body.Results) != 1 || body.Results[0].Port != 443 {
		t.Errorf("unexpected results: %+v", body)
	}
	if len(body.Steps) == 0 {
		t.Error("steps missing")
	}

	if _, ok := store.sessions[body.SessionID]; !ok {
		t.Error("session was not persisted")
	}
	if len(store.findings[body.SessionID]) != 1 {
		t.Error("findings were not persisted")
	}
}

func TestScanHandlerDefaultPorts(t *testing.T) {
	store := newFakeStore()
	srv := httptest.NewServer(newTestServer(store).Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/scan", "application/json",
		strings.NewReader(`{"ip_range": "8.8.8.8"}`))
	if err != nil {
		t.Fatalf("POST /api/scan: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("omitted ports should fall back to defaults, got status %d", resp.StatusCode)
	}
}

func TestScanHandlerBadInput(t *testing.T) {
	srv := httptest.NewServer(newTestServer(newFakeStore()).Routes())
	defer srv.Close()

	cases := []struct {
		name string
		body string
	}{
		{"missing range", `{"ports": [80]}`},
		{"invalid port", `{"ip_range": "8.8.8.8", "ports": [70000]}`},
		{"private only", `{"ip_range": "192.168.1.1", "ports": [80]}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/scan", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST /api/scan: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status %d, want 400", resp.StatusCode)
			}
			var envelope map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				t.Fatalf("decoding error envelope: %v", err)
			}
			if envelope["error"] == "" {
				t.Error("error envelope missing message")
			}
		})
	}
}

func TestScanHandlerPersistenceFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("disk full")
	srv := httptest.NewServer(newTestServer(store).Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/scan", "application/json",
		strings.NewReader(`{"ip_range": "8.8.8.8", "ports": [443]}`))
	if err != nil {
		t.Fatalf("POST /api/scan: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("persistence failure must not fail the request, got %d", resp.StatusCode)
	}
}

func TestCrawlHandler(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><a href="/about">About</a></body></html>`)
	}))
	defer site.Close()

	store := newFakeStore()
	srv := httptest.NewServer(newTestServer(store).Routes())
	defer srv.Close()

	body := fmt.Sprintf(`{"url": %q, "depth": 1, "max_pages": 10}`, site.URL)
	resp, err := http.Post(srv.URL+"/api/crawl", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /api/crawl: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var result models.CrawlResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.PagesCrawled < 1 {
		t.Errorf("expected at least one page crawled, got %d", result.PagesCrawled)
	}
	if _, ok := store.crawls[result.ID]; !ok {
		t.Error("crawl was not persisted")
	}
}

func TestCrawlHandlerValidation(t *testing.T) {
	srv := httptest.NewServer(newTestServer(newFakeStore()).Routes())
	defer srv.Close()

	cases := []struct {
		name string
		body string
	}{
		{"missing url", `{"depth": 1, "max_pages": 10}`},
		{"depth too low", `{"url": "https://example.com", "depth": 0, "max_pages": 10}`},
		{"depth too high", `{"url": "https://example.com", "depth": 6, "max_pages": 10}`},
		{"max pages too high", `{"url": "https://example.com", "depth": 1, "max_pages": 101}`},
		{"bad scheme", `{"url": "ftp://example.com", "depth": 1, "max_pages": 10}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/api/crawl", "application/json", strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("POST /api/crawl: %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	store := newFakeStore()
	session := models.NewScanSession("8.8.8.8")
	store.sessions[session.ID] = session

	srv := httptest.NewServer(newTestServer(store).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/" + session.ID)
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	var got models.ScanSession
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding session: %v", err)
	}
	if got.ID != session.ID {
		t.Errorf("got session %s, want %s", got.ID, session.ID)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	srv := httptest.NewServer(newTestServer(newFakeStore()).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions/no-such-id")
	if err != nil {
		t.Fatalf("GET session: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestListSessionsRequiresTarget(t *testing.T) {
	srv := httptest.NewServer(newTestServer(newFakeStore()).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET sessions: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestListSessionsEmptyIsArray(t *testing.T) {
	srv := httptest.NewServer(newTestServer(newFakeStore()).Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/sessions?target=1.1.1.1")
	if err != nil {
		t.Fatalf("GET sessions: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	var sessions []*models.ScanSession
	if err := json.NewDecoder(resp.Body).Decode(&sessions); err != nil {
		t.Fatalf("empty list must decode as JSON array: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected empty list, got %d", len(sessions))
	}
}
