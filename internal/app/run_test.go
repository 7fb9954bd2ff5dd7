package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/activityhub/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ServerPort:        "0",
		StaticDir:         filepath.Join(t.TempDir(), "static"),
		RateLimitGeneral:  120,
		RateLimitWrite:    30,
		LogLevel:          "info",
		CORSAllowedOrigin: "*",
	}
}

func TestRun_WithInvalidPort_ReturnsError(t *testing.T) {
	t.Setenv("SERVER_PORT", "abc")

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run with invalid SERVER_PORT should return error")
	}
}

func TestRun_WithMissingSeedFile_ReturnsError(t *testing.T) {
	t.Setenv("SERVER_PORT", "0")
	t.Setenv("ACTIVITY_SEED_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	var buf bytes.Buffer
	err := Run(&buf, []string{})
	if err == nil {
		t.Fatal("Run with missing seed file should return error")
	}
	if !strings.Contains(err.Error(), "failed to load activities") {
		t.Errorf("error = %v, want failed to load activities", err)
	}
}

func TestRun_Healthcheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}
	_, port, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("failed to split host: %v", err)
	}
	t.Setenv("SERVER_PORT", port)

	if err := Run(io.Discard, []string{"healthcheck"}); err != nil {
		t.Errorf("healthcheck returned error: %v", err)
	}
}

func TestRunHealthcheck_UnhealthyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, port, _ := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	if err := runHealthcheck(port); err == nil {
		t.Error("expected error for 503 response")
	}
}

func TestNewServer_WiresRoutes(t *testing.T) {
	srv, err := newServer(testConfig(t))
	if err != nil {
		t.Fatalf("newServer returned error: %v", err)
	}
	defer srv.rateLimiter.Stop()

	h := srv.http.Handler

	// 申込み
	req := httptest.NewRequest(http.MethodPost, "/activities/Chess%20Club/signup?email=newstudent@mergington.edu", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d, want %d; body=%s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// 一覧に反映されている
	req = httptest.NewRequest(http.MethodGet, "/activities", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var activities map[string]struct {
		Participants []string `json:"participants"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&activities); err != nil {
		t.Fatalf("failed to decode activities: %v", err)
	}
	if got := activities["Chess Club"].Participants; len(got) != 3 || got[2] != "newstudent@mergington.edu" {
		t.Errorf("Chess Club participants = %v", got)
	}

	// メトリクスに申込み結果と参加者数が出力される
	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body := rec.Body.String()
	for _, want := range []string{
		`activityhub_signups_total{result="success"} 1`,
		`activityhub_participants{activity="Chess Club"} 3`,
		`activityhub_http_status_total{status_code="200"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewServer_LoadsSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activities.yaml")
	seed := `activities:
  - name: Robotics
    description: Build <b>robots</b>
    schedule: Saturdays, 10:00 AM - 12:00 PM
    max_participants: 1
    participants: [ada@mergington.edu]
`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	cfg := testConfig(t)
	cfg.SeedFile = path
	cfg.EnforceCapacity = true

	srv, err := newServer(cfg)
	if err != nil {
		t.Fatalf("newServer returned error: %v", err)
	}
	defer srv.rateLimiter.Stop()

	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)

	var activities map[string]struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&activities); err != nil {
		t.Fatalf("failed to decode activities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("len(activities) = %d, want 1", len(activities))
	}
	if got := activities["Robotics"].Description; got != "Build robots" {
		t.Errorf("description = %q, want sanitized text", got)
	}

	// 定員1名が埋まっているため申込みは拒否される
	req = httptest.NewRequest(http.MethodPost, "/activities/Robotics/signup?email=grace@mergington.edu", nil)
	rec = httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("signup status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRunServe_ShutsDownOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- runServe(ctx, cfg)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServe returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after context cancel")
	}
}
