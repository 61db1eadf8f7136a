package apihttp

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"reactor-sim/internal/monitoring"
	"reactor-sim/internal/reactor/application"
	reactor "reactor-sim/internal/reactor/domain"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	r, err := reactor.NewReactor("R-001", "Main Reactor",
		reactor.WithRand(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("new reactor: %v", err)
	}
	svc, err := application.NewService(r, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	handler, err := NewHandler(svc, monitoring.NewService())
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	mux := http.NewServeMux()
	handler.Register(mux)
	return mux
}

func postCommand(t *testing.T, mux *http.ServeMux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reactor/commands", strings.NewReader(body))
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	return resp
}

func TestGetReactorState(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reactor", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", resp.Code)
	}
	var snap reactor.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snap.ReactorID != "R-001" || snap.Status != reactor.StatusShutdown {
		t.Fatalf("got %s/%s", snap.ReactorID, snap.Status)
	}
	if len(snap.ControlRods) != 10 {
		t.Fatalf("got %d rods", len(snap.ControlRods))
	}
}

func TestCommandLifecycle(t *testing.T) {
	mux := newTestMux(t)

	for _, body := range []string{
		`{"command":"start_up"}`,
		`{"command":"reach_operational"}`,
		`{"command":"adjust_power","target_mw":900}`,
		`{"command":"insert_control_rod","rod_id":"CR-1","level":40}`,
	} {
		resp := postCommand(t, mux, body)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: got %d: %s", body, resp.Code, resp.Body.String())
		}
	}

	var snap reactor.Snapshot
	resp := postCommand(t, mux, `{"command":"shutdown"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("shutdown: got %d", resp.Code)
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snap.Status != reactor.StatusShutdown {
		t.Fatalf("got status %s", snap.Status)
	}
}

func TestCommandErrorMapping(t *testing.T) {
	mux := newTestMux(t)

	if resp := postCommand(t, mux, `{"command":"adjust_power","target_mw":500}`); resp.Code != http.StatusConflict {
		t.Fatalf("adjust while shutdown: got %d, want 409", resp.Code)
	}

	for _, body := range []string{`{"command":"start_up"}`, `{"command":"reach_operational"}`} {
		if resp := postCommand(t, mux, body); resp.Code != http.StatusOK {
			t.Fatalf("%s: got %d", body, resp.Code)
		}
	}

	cases := []struct {
		body string
		want int
	}{
		{`{"command":"adjust_power","target_mw":-1}`, http.StatusBadRequest},
		{`{"command":"adjust_power","target_mw":1300}`, http.StatusBadRequest},
		{`{"command":"insert_control_rod","rod_id":"CR-99","level":50}`, http.StatusBadRequest},
		{`{"command":"perform_maintenance"}`, http.StatusConflict},
		{`{"command":"warp_drive"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := postCommand(t, mux, tc.body)
		if resp.Code != tc.want {
			t.Errorf("%s: got %d, want %d", tc.body, resp.Code, tc.want)
		}
		var body map[string]any
		if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: body is not json: %v", tc.body, err)
			continue
		}
		if body["error"] == "" {
			t.Errorf("%s: missing error message", tc.body)
		}
	}
}

func TestEmergencyShutdownAlwaysAccepted(t *testing.T) {
	mux := newTestMux(t)

	resp := postCommand(t, mux, `{"command":"emergency_shutdown"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("got %d", resp.Code)
	}
	var snap reactor.Snapshot
	if err := json.Unmarshal(resp.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snap.Status != reactor.StatusEmergencyShutdown {
		t.Fatalf("got status %s", snap.Status)
	}
}

func TestGetHealth(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reactor/health", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("got %d", resp.Code)
	}
	var body struct {
		HealthScore     float64  `json:"health_score"`
		Warnings        []string `json:"warnings"`
		OperatingSafely bool     `json:"operating_safely"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.HealthScore != 100 {
		t.Errorf("fresh reactor health: got %.1f", body.HealthScore)
	}
}

func TestGetPerformance(t *testing.T) {
	mux := newTestMux(t)
	for _, body := range []string{
		`{"command":"start_up"}`,
		`{"command":"reach_operational"}`,
	} {
		if resp := postCommand(t, mux, body); resp.Code != http.StatusOK {
			t.Fatalf("%s: got %d", body, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reactor/performance", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("got %d", resp.Code)
	}
	var body struct {
		ReactorID        string             `json:"reactor_id"`
		CurrentPower     float64            `json:"current_power"`
		Grade            string             `json:"grade"`
		RodEffectiveness map[string]float64 `json:"rod_effectiveness"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.ReactorID != "R-001" || body.CurrentPower != 1000 {
		t.Errorf("got %s/%.1f", body.ReactorID, body.CurrentPower)
	}
	if body.Grade == "" {
		t.Errorf("missing grade")
	}
	if len(body.RodEffectiveness) != 10 {
		t.Errorf("got %d rod entries", len(body.RodEffectiveness))
	}
}

func TestGetPerformanceAtZeroPower(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reactor/performance", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("got %d", resp.Code)
	}
	var body struct {
		RemainingHours *float64 `json:"remaining_operational_hours"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RemainingHours != nil {
		t.Errorf("shutdown reactor should report no remaining hours, got %.1f", *body.RemainingHours)
	}
}

func TestExportReport(t *testing.T) {
	mux := newTestMux(t)

	for format, contentType := range map[string]string{
		"pdf":  "application/pdf",
		"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reactor/report/export?format="+format, nil)
		resp := httptest.NewRecorder()
		mux.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: got %d", format, resp.Code)
		}
		if got := resp.Header().Get("Content-Type"); got != contentType {
			t.Errorf("%s: got content type %s", format, got)
		}
		if resp.Body.Len() == 0 {
			t.Errorf("%s: empty export", format)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reactor/report/export?format=csv", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("csv: got %d, want 400", resp.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/reactor", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/reactor/commands", nil)
	resp = httptest.NewRecorder()
	mux.ServeHTTP(resp, req)
	if resp.Code != http.StatusMethodNotAllowed {
		t.Fatalf("commands GET: got %d", resp.Code)
	}
}
