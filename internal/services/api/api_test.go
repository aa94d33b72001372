package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"receiptjar/internal/platform/config"
	"receiptjar/internal/platform/kv"
	phttp "receiptjar/internal/platform/net/http"

	"receiptjar/internal/services/api"
)

type envelope struct {
	OK        bool            `json:"ok"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Duplicate bool            `json:"duplicate"`
	Count     *int            `json:"count"`
	Data      json.RawMessage `json:"data"`
}

type receiptDTO struct {
	ID        string  `json:"id"`
	Symbol    string  `json:"symbol"`
	Action    string  `json:"action"`
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	TS        string  `json:"ts"`
	Note      string  `json:"note"`
	Source    string  `json:"source"`
	CreatedAt string  `json:"created_at"`
}

func newAPI(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	srv := phttp.NewServer(config.New())
	r := srv.Router()
	api.Mount(r, api.Options{
		Config: config.New().Prefix("RECEIPT_API_"),
		KV:     kv.NewMemory(),
		APIKey: apiKey,
	})
	return r.Mux()
}

func do(t *testing.T, h http.Handler, method, target, body string, hdr map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, rr.Body.String())
		}
	}
	return rr, env
}

func TestAPI_HealthAndRoot(t *testing.T) {
	h := newAPI(t, "")

	for _, path := range []string{"/", "/health"} {
		rr, env := do(t, h, http.MethodGet, path, "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rr.Code)
		}
		if !env.OK {
			t.Errorf("GET %s envelope not ok: %+v", path, env)
		}
	}
}

func TestAPI_ReceiptLifecycle(t *testing.T) {
	h := newAPI(t, "")

	// create
	rr, env := do(t, h, http.MethodPost, "/receipt",
		`{"symbol":"DOGE","action":"buy","price":0.1,"size":100,"note":"to the moon"}`, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d (%s)", rr.Code, rr.Body.String())
	}
	var rec receiptDTO
	if err := json.Unmarshal(env.Data, &rec); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if rec.ID == "" || rec.Action != "BUY" || rec.Source != "manual" || rec.CreatedAt == "" {
		t.Fatalf("created receipt = %+v", rec)
	}

	// resubmit inside the window, different note and ts, still a duplicate
	rr, env = do(t, h, http.MethodPost, "/receipt",
		`{"symbol":"doge","action":"BUY","price":0.1,"size":100,"note":"different","ts":"2026-01-01T00:00:00Z"}`, nil)
	if rr.Code != http.StatusOK || !env.Duplicate {
		t.Fatalf("duplicate = %d dup=%v", rr.Code, env.Duplicate)
	}

	// fetch by id
	rr, env = do(t, h, http.MethodGet, "/receipt/"+rec.ID, "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get = %d", rr.Code)
	}
	var got receiptDTO
	if err := json.Unmarshal(env.Data, &got); err != nil || got.ID != rec.ID {
		t.Fatalf("get data = %s", env.Data)
	}
	if got.Note != "to the moon" {
		t.Errorf("note = %q", got.Note)
	}

	// list
	rr, env = do(t, h, http.MethodGet, "/receipts", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list = %d", rr.Code)
	}
	if env.Count == nil || *env.Count != 1 {
		t.Fatalf("count = %v", env.Count)
	}

	// missing id
	rr, env = do(t, h, http.MethodGet, "/receipt/absent", "", nil)
	if rr.Code != http.StatusNotFound || env.Code != "not_found" {
		t.Fatalf("missing id = %d code=%q", rr.Code, env.Code)
	}
}

func TestAPI_ValidationError(t *testing.T) {
	h := newAPI(t, "")

	rr, env := do(t, h, http.MethodPost, "/receipt", `{"symbol":"DOGE","action":"BUY","price":0}`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if env.Code != "bad_request" || env.Message != "price must be greater than 0" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestAPI_UnknownRoute(t *testing.T) {
	h := newAPI(t, "")

	rr, env := do(t, h, http.MethodGet, "/nope", "", nil)
	if rr.Code != http.StatusNotFound || env.Code != "not_found" {
		t.Fatalf("unknown route = %d code=%q", rr.Code, env.Code)
	}
}

func TestAPI_OptionsAnyPathReturns204(t *testing.T) {
	h := newAPI(t, "")

	for _, path := range []string{"/receipt", "/whatever"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Errorf("OPTIONS %s = %d, want 204", path, rr.Code)
		}
	}
}

func TestAPI_CORSReflectsOrigin(t *testing.T) {
	h := newAPI(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://dash.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestAPI_KeyAuth(t *testing.T) {
	h := newAPI(t, "hunter2")

	// no key
	rr, env := do(t, h, http.MethodGet, "/receipts", "", nil)
	if rr.Code != http.StatusUnauthorized || env.Code != "unauthorized" {
		t.Fatalf("no key = %d code=%q", rr.Code, env.Code)
	}

	// wrong key
	rr, _ = do(t, h, http.MethodGet, "/receipts", "", map[string]string{"X-API-Key": "nope"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key = %d", rr.Code)
	}

	// header key
	rr, _ = do(t, h, http.MethodGet, "/receipts", "", map[string]string{"X-API-Key": "hunter2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("x-api-key = %d", rr.Code)
	}

	// bearer key
	rr, _ = do(t, h, http.MethodGet, "/receipts", "", map[string]string{"Authorization": "Bearer hunter2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("bearer = %d", rr.Code)
	}

	// health stays open for probes even with a key configured
	rr, env = do(t, h, http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK || !env.OK {
		t.Fatalf("health with auth on = %d ok=%v", rr.Code, env.OK)
	}
}
