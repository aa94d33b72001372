package errors

import (
	"context"
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, Message: "pg says no"}
}

func TestKVErrorCodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeConflict},    // unique violation
		{"22001", ErrorCodeBadRequest},  // string truncation
		{"40001", ErrorCodeKV},          // serialization failure
		{"40P01", ErrorCodeKV},          // deadlock
		{"55P03", ErrorCodeKV},          // lock not available
		{"57P03", ErrorCodeUnavailable}, // cannot connect now
		{"57P01", ErrorCodeUnavailable}, // admin shutdown
		{"53300", ErrorCodeUnavailable}, // too many connections
		{"XXXXX", ErrorCodeKV},          // default branch
	}
	for _, c := range cases {
		got, ok := KVErrorCode(pgErr(c.code))
		if !ok {
			t.Fatalf("expected ok for PgError code %s", c.code)
		}
		if got != c.want {
			t.Fatalf("KVErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	if _, ok := KVErrorCode(stderrs.New("not a pg error")); ok {
		t.Fatal("expected !ok for foreign error")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil {
		t.Fatal("FromPostgres(nil) should be nil")
	}
	err := FromPostgres(pgErr("23505"), "kv put")
	if CodeOf(err) != ErrorCodeConflict {
		t.Fatalf("code = %v", CodeOf(err))
	}
	err = FromPostgresf(stderrs.New("dial refused"), "kv %s", "get")
	if CodeOf(err) != ErrorCodeKV {
		t.Fatalf("foreign error code = %v", CodeOf(err))
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(nil) {
		t.Fatal("nil is not retryable")
	}
	if IsRetryable(context.Canceled) || IsRetryable(context.DeadlineExceeded) {
		t.Fatal("local cancellation is not retryable")
	}
	if !IsRetryable(pgErr("40001")) || !IsRetryable(pgErr("40P01")) {
		t.Fatal("contention SQLSTATEs should be retryable")
	}
	if IsRetryable(pgErr("23505")) {
		t.Fatal("unique violation is not retryable")
	}
	if !IsRetryable(stderrs.New("ERROR: deadlock detected")) {
		t.Fatal("text fallback should match deadlock")
	}
	if IsRetryable(stderrs.New("some random failure")) {
		t.Fatal("random text is not retryable")
	}
	if !IsRetryable(FromPostgres(pgErr("55P03"), "wrapped")) {
		t.Fatal("retryable cause should survive wrapping")
	}
}
