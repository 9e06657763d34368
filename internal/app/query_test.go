package app

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rickgao/ouc-dashboard/internal/model"
)

// fakeIndexer serves canned indexer responses and records requests.
type fakeIndexer struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeIndexer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.RequestURI())
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/events":
		fmt.Fprint(w, `{"events":[{"eventId":"e1"},{"eventId":"e2"}],"total":2}`)
	case "/events/e1":
		fmt.Fprint(w, `{"eventId":"e1","chain":"ethereum"}`)
	case "/stats":
		fmt.Fprint(w, `{"totalEvents":42}`)
	case "/health":
		fmt.Fprint(w, `{"status":"ok"}`)
	case "/auditors":
		fmt.Fprint(w, `[{"id":"a1"}]`)
	case "/auditors/a1":
		fmt.Fprint(w, `{"id":"a1","name":"Alice"}`)
	case "/subscription":
		fmt.Fprint(w, `{"tier":"basic","autoRenew":false}`)
	case "/subscription/tier":
		fmt.Fprint(w, `{"tier":"pro","autoRenew":false}`)
	case "/subscription/auto-renew":
		fmt.Fprint(w, `{"tier":"basic","autoRenew":true}`)
	case "/treasury":
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"treasury offline"}`)
	case "/ouc/status":
		fmt.Fprint(w, `{"synced":true}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeIndexer) lastRequest() (string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.requests)
	return f.requests[n-1], f.bodies[n-1]
}

func startIndexer(t *testing.T) (*fakeIndexer, string) {
	t.Helper()
	f := &fakeIndexer{}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	path := writeConfig(t, fmt.Sprintf(`
environment: local
indexer:
  url: %s
  timeout: 5s
  event_limit: 10
`, srv.URL))
	return f, path
}

func TestSnapshotCommand(t *testing.T) {
	_, cfgPath := startIndexer(t)

	out, err := runCmd(t, "snapshot", "--config", cfgPath, "--log-level", "error")
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("output is not a snapshot: %v\n%s", err, out)
	}
	if len(snap.Events.Events) != 2 || len(snap.Auditors) != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Treasury != nil {
		t.Errorf("Treasury = %+v, want nil fallback", snap.Treasury)
	}
	if len(snap.Failures) != 1 || snap.Failures[0].Source != "treasury" {
		t.Errorf("Failures = %+v, want treasury only", snap.Failures)
	}
}

func TestQueryCommands(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantRequest string
		wantOutput  string
	}{
		{"events", []string{"events", "--chain", "ethereum", "--limit", "5"}, "GET /events?chain=ethereum&limit=5", `"eventId":"e1"`},
		{"event", []string{"event", "e1"}, "GET /events/e1", `"chain":"ethereum"`},
		{"stats", []string{"stats"}, "GET /stats", `"totalEvents":42`},
		{"health", []string{"health"}, "GET /health", `"status":"ok"`},
		{"auditors", []string{"auditors"}, "GET /auditors", `"id":"a1"`},
		{"auditor", []string{"auditor", "a1"}, "GET /auditors/a1", `"name":"Alice"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cfgPath := startIndexer(t)

			args := append(tt.args, "--config", cfgPath, "--log-level", "error")
			out, err := runCmd(t, args...)
			if err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}

			if got, _ := f.lastRequest(); got != tt.wantRequest {
				t.Errorf("request = %q, want %q", got, tt.wantRequest)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Errorf("output = %q, want it to contain %q", out, tt.wantOutput)
			}
		})
	}
}

func TestWriteCommands(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantRequest string
		wantBody    string
		wantOutput  string
	}{
		{"tier", []string{"tier", "pro"}, "POST /subscription/tier", `{"tier":"pro"}`, `"tier":"pro"`},
		{"auto-renew", []string{"auto-renew", "on"}, "POST /subscription/auto-renew", `{"autoRenew":true}`, `"autoRenew":true`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, cfgPath := startIndexer(t)

			args := append(tt.args, "--config", cfgPath, "--log-level", "error")
			out, err := runCmd(t, args...)
			if err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}

			req, body := f.lastRequest()
			if req != tt.wantRequest {
				t.Errorf("request = %q, want %q", req, tt.wantRequest)
			}
			if strings.TrimSpace(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if !strings.Contains(out, tt.wantOutput) {
				t.Errorf("output = %q, want it to contain %q", out, tt.wantOutput)
			}
		})
	}
}

func TestAutoRenewCommand_InvalidValue(t *testing.T) {
	_, cfgPath := startIndexer(t)

	if _, err := runCmd(t, "auto-renew", "sometimes", "--config", cfgPath, "--log-level", "error"); err == nil {
		t.Error("expected error for invalid toggle")
	}
}

func TestCommand_BadConfig(t *testing.T) {
	cfgPath := writeConfig(t, "indexer:\n  event_limit: 5000\n")

	_, err := runCmd(t, "stats", "--config", cfgPath, "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "event_limit") {
		t.Errorf("err = %v, want event_limit validation error", err)
	}
}
