package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeKV, http.StatusInternalServerError},
		{ErrorCodeKVMissing, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{"no_such_code", http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeBadRequest, "bad stuff")
	if CodeOf(e1) != ErrorCodeBadRequest {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeBadRequest, "bad json %d", 12)
	if got := e2.Error(); got != "bad json 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeKV, "kv failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeKV {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	if got := e3.Error(); got != "kv failed: root" {
		t.Fatalf("wrapped render = %q", got)
	}

	if Root(fmt.Errorf("outer: %w", e3)) != src {
		t.Fatal("Root did not reach the deepest cause")
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(nil)
	if w.Code != "" || w.Message != "" {
		t.Fatalf("WireFrom(nil) = %+v, want zero", w)
	}

	w = WireFrom(WithField(BadRequestf("price must be > 0"), "price"))
	if w.Code != ErrorCodeBadRequest || w.Message != "price must be > 0" || w.Field != "price" {
		t.Fatalf("WireFrom(project err) = %+v", w)
	}

	w = WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("WireFrom(foreign err) = %+v", w)
	}
}

func TestIsCodeAndHTTPStatus(t *testing.T) {
	err := NotFoundf("receipt %s not found", "abc")
	if !IsCode(err, ErrorCodeNotFound) {
		t.Fatal("IsCode(not_found) = false")
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("HTTPStatus = %d", HTTPStatus(err))
	}
	if HTTPStatus(stderrs.New("x")) != http.StatusInternalServerError {
		t.Fatalf("foreign error status = %d", HTTPStatus(stderrs.New("x")))
	}
}

func TestMutatorsCopyOnWrite(t *testing.T) {
	base := Unauthorizedf("invalid api key")
	withField := WithField(base, "x-api-key")

	be, _ := As(base)
	fe, _ := As(withField)
	if be.Field() != "" {
		t.Fatal("WithField mutated the original")
	}
	if fe.Field() != "x-api-key" {
		t.Fatalf("field = %q", fe.Field())
	}

	withOp := WithOp(base, "receipts.ingest")
	oe, _ := As(withOp)
	if oe.Op() != "receipts.ingest" {
		t.Fatalf("op = %q", oe.Op())
	}

	// foreign errors pass through unchanged
	foreign := stderrs.New("nope")
	if WithField(foreign, "f") != foreign {
		t.Fatal("WithField should not wrap foreign errors")
	}
}

func TestWrapIf(t *testing.T) {
	if WrapIf(nil, ErrorCodeKV, "x") != nil {
		t.Fatal("WrapIf(nil) should be nil")
	}
	err := WrapIf(stderrs.New("y"), ErrorCodeKV, "kv put")
	if CodeOf(err) != ErrorCodeKV {
		t.Fatalf("WrapIf code = %v", CodeOf(err))
	}
}

func TestHTTPBundle(t *testing.T) {
	status, w := HTTP(nil)
	if status != http.StatusOK || w.Code != "" {
		t.Fatalf("HTTP(nil) = %d %+v", status, w)
	}
	status, w = HTTP(KVMissingf("kv not configured"))
	if status != http.StatusInternalServerError || w.Code != ErrorCodeKVMissing {
		t.Fatalf("HTTP(kv_missing) = %d %+v", status, w)
	}
}
