package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asicfleet/simulator/internal/clock"
	"github.com/asicfleet/simulator/internal/fleet"
	"github.com/asicfleet/simulator/internal/preset"
)

func newTestServer(t *testing.T) (*Server, *fleet.Runtime) {
	t.Helper()
	catalog, err := preset.Default()
	if err != nil {
		t.Fatalf("preset.Default(): %v", err)
	}
	rt := fleet.New(catalog, clock.NewFake(time.Unix(1700000000, 0)))
	return New(rt, nil, nil, nil), rt
}

func TestHandleListModels(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/models", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var models []preset.PublicView
	if err := json.Unmarshal(w.Body.Bytes(), &models); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(models) == 0 {
		t.Fatal("expected at least one model")
	}
}

func TestCreateGetDeleteMinerLifecycle(t *testing.T) {
	s, _ := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"model_id": "bm1370_4chip", "scenario_id": "healthy"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/miners", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		MinerID string `json:"miner_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/miners/"+created.MinerID+"/telemetry", nil)
	getW := httptest.NewRecorder()
	s.Handler().ServeHTTP(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200 for telemetry, got %d: %s", getW.Code, getW.Body.String())
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/api/v1/miners/"+created.MinerID, nil)
	delW := httptest.NewRecorder()
	s.Handler().ServeHTTP(delW, delReq)
	if delW.Code != http.StatusOK {
		t.Fatalf("expected 200 for delete, got %d: %s", delW.Code, delW.Body.String())
	}

	missingReq := httptest.NewRequest(http.MethodGet, "/api/v1/miners/"+created.MinerID+"/telemetry", nil)
	missingW := httptest.NewRecorder()
	s.Handler().ServeHTTP(missingW, missingReq)
	if missingW.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d: %s", missingW.Code, missingW.Body.String())
	}
}

func TestPatchConfigUnprocessableOnViolation(t *testing.T) {
	s, rt := newTestServer(t)
	id, err := rt.Create("bm1370_4chip", "healthy")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	body, _ := json.Marshal(map[string]int{"coreVoltage": 99999})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/miners/"+id+"/config", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCompatSummaryShapesVendorStyleResponse(t *testing.T) {
	s, rt := newTestServer(t)
	id, err := rt.Create("bm1370_4chip", "healthy")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/compat/miners/"+id+"/summary", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp compatSummaryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode compat summary: %v", err)
	}
	if len(resp.Miner.Chains) != 1 {
		t.Fatalf("expected exactly one chain in compat summary, got %d", len(resp.Miner.Chains))
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
