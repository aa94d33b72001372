package kv

import (
	"testing"
	"time"
)

func TestPrefixEnd(t *testing.T) {
	cases := []struct {
		prefix string
		want   string
		ok     bool
	}{
		{"idx:", "idx;", true},
		{"receipt:", "receipt;", true},
		{"a", "b", true},
		{"a\xff", "b", true},
		{"\xff\xff", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := prefixEnd(tc.prefix)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("prefixEnd(%q) = %q,%v want %q,%v", tc.prefix, got, ok, tc.want, tc.ok)
		}
	}
}

func TestEncodePutArgs(t *testing.T) {
	meta, exp, err := encodePutArgs(PutOptions{})
	if err != nil || meta != nil || exp != nil {
		t.Fatalf("zero opts = %v %v %v", meta, exp, err)
	}

	before := time.Now().UTC()
	meta, exp, err = encodePutArgs(PutOptions{
		TTL:      time.Minute,
		Metadata: map[string]any{"symbol": "DOGE"},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(meta) != `{"symbol":"DOGE"}` {
		t.Fatalf("meta = %s", meta)
	}
	if exp == nil || exp.Before(before.Add(59*time.Second)) || exp.After(before.Add(61*time.Second)) {
		t.Fatalf("exp = %v", exp)
	}
}
