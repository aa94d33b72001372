package http_test

import (
	stdctx "context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "receiptjar/internal/platform/net/http"
	metahttp "receiptjar/internal/services/api/meta/http"
)

type envelope struct {
	OK   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

type failingPinger struct{ err error }

func (f failingPinger) Ping(stdctx.Context) error { return f.err }

func serve(t *testing.T, d metahttp.Deps, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	mux := chi.NewRouter()
	metahttp.Register(phttp.AdaptChi(mux), d)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rr.Body.String())
	}
	return rr, env
}

func deps() metahttp.Deps {
	return metahttp.Deps{
		ServiceName: "receiptjar-api",
		StartedAt:   time.Now().Add(-5 * time.Minute),
	}
}

func TestHealth_RootAndHealthPaths(t *testing.T) {
	for _, path := range []string{"/", "/health"} {
		rr, env := serve(t, deps(), path)
		if rr.Code != http.StatusOK || !env.OK {
			t.Fatalf("GET %s = %d ok=%v", path, rr.Code, env.OK)
		}
		var hr metahttp.HealthResponse
		if err := json.Unmarshal(env.Data, &hr); err != nil {
			t.Fatalf("decode health: %v", err)
		}
		if hr.Service != "receiptjar-api" || hr.Uptime < 299 {
			t.Errorf("health = %+v", hr)
		}
	}
}

func TestReady_SkippedWithoutStore(t *testing.T) {
	_, env := serve(t, deps(), "/ready")
	var rr metahttp.ReadyResponse
	if err := json.Unmarshal(env.Data, &rr); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if rr.Status != "degraded" || len(rr.Checks) != 1 || rr.Checks[0].Status != "skipped" {
		t.Fatalf("ready = %+v", rr)
	}
}

func TestReady_FailingStore(t *testing.T) {
	d := deps()
	d.KV = failingPinger{err: errors.New("kv down")}
	_, env := serve(t, d, "/ready")

	var rr metahttp.ReadyResponse
	if err := json.Unmarshal(env.Data, &rr); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if rr.Status != "fail" || rr.Checks[0].Error != "kv down" {
		t.Fatalf("ready = %+v", rr)
	}
}

func TestReady_HealthyStore(t *testing.T) {
	d := deps()
	d.KV = failingPinger{err: nil}
	_, env := serve(t, d, "/ready")

	var rr metahttp.ReadyResponse
	if err := json.Unmarshal(env.Data, &rr); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if rr.Status != "ok" || rr.Checks[0].Name != "kv" {
		t.Fatalf("ready = %+v", rr)
	}
}

func TestVersion_ReturnsBuildInfo(t *testing.T) {
	rr, env := serve(t, deps(), "/version")
	if rr.Code != http.StatusOK || !env.OK {
		t.Fatalf("version = %d", rr.Code)
	}
	if len(env.Data) == 0 {
		t.Fatal("version data empty")
	}
}
