package domain

import (
	"strings"
	"testing"
	"time"

	perr "receiptjar/internal/platform/errors"
)

var testNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func validInput() Input {
	return Input{Symbol: "doge", Action: "buy", Price: float64(0.1), Size: float64(100)}
}

func TestNormalize_HappyPath(t *testing.T) {
	rec, err := validInput().Normalize(testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Symbol != "doge" {
		t.Errorf("symbol = %q, want doge", rec.Symbol)
	}
	if rec.Action != ActionBuy {
		t.Errorf("action = %q, want BUY", rec.Action)
	}
	if rec.Price != 0.1 || rec.Size != 100 {
		t.Errorf("price/size = %v/%v", rec.Price, rec.Size)
	}
	if rec.TS != "2026-03-14T09:26:53Z" {
		t.Errorf("ts defaulted to %q", rec.TS)
	}
	if rec.Source != DefaultSource {
		t.Errorf("source = %q, want %q", rec.Source, DefaultSource)
	}
	if rec.ID != "" || rec.CreatedAt != "" {
		t.Errorf("id/created_at must be unset until persistence, got %q/%q", rec.ID, rec.CreatedAt)
	}
}

func TestNormalize_RuleOrderAndMessages(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Input)
		msg  string
	}{
		{"missing symbol", func(in *Input) { in.Symbol = "   " }, "symbol is required"},
		{"bad action", func(in *Input) { in.Action = "YOLO" }, "action must be one of"},
		{"price not a number", func(in *Input) { in.Price = "abc" }, "price must be a number"},
		{"price zero", func(in *Input) { in.Price = float64(0) }, "price must be greater than 0"},
		{"price negative", func(in *Input) { in.Price = float64(-1) }, "price must be greater than 0"},
		{"size not a number", func(in *Input) { in.Size = "lots" }, "size must be a number"},
		{"size negative", func(in *Input) { in.Size = float64(-0.5) }, "size must be zero or greater"},
		{"ts object", func(in *Input) { in.TS = map[string]any{} }, "ts must be a string or number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mut(&in)
			_, err := in.Normalize(testNow)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !perr.IsCode(err, perr.ErrorCodeBadRequest) {
				t.Errorf("code = %v, want bad_request", perr.CodeOf(err))
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("message %q does not contain %q", err.Error(), tc.msg)
			}
		})
	}
}

func TestNormalize_FirstFailureWins(t *testing.T) {
	// both symbol and price are invalid, symbol is checked first
	in := Input{Symbol: "", Action: "nope", Price: float64(-5)}
	_, err := in.Normalize(testNow)
	if err == nil || !strings.Contains(err.Error(), "symbol is required") {
		t.Fatalf("err = %v, want the symbol failure", err)
	}
}

func TestNormalize_Coercions(t *testing.T) {
	in := validInput()
	in.Price = " 64250.50 "
	in.Size = "0.0025"
	rec, err := in.Normalize(testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Price != 64250.5 || rec.Size != 0.0025 {
		t.Errorf("coerced price/size = %v/%v", rec.Price, rec.Size)
	}
}

func TestNormalize_SizeDefaultsToZero(t *testing.T) {
	in := validInput()
	in.Size = nil
	rec, err := in.Normalize(testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Size != 0 {
		t.Errorf("size = %v, want 0", rec.Size)
	}
}

func TestNormalize_TSPassthrough(t *testing.T) {
	in := validInput()
	in.TS = "whenever o'clock" // ts is recorded verbatim, not parsed
	rec, err := in.Normalize(testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.TS != "whenever o'clock" {
		t.Errorf("ts = %q", rec.TS)
	}

	in.TS = float64(1757840813)
	rec, err = in.Normalize(testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.TS != "1757840813" {
		t.Errorf("numeric ts = %q", rec.TS)
	}
}

func TestNormalize_ActionCaseFolded(t *testing.T) {
	for _, raw := range []string{"sell", "Sell", " SELL "} {
		in := validInput()
		in.Action = raw
		rec, err := in.Normalize(testNow)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", raw, err)
		}
		if rec.Action != ActionSell {
			t.Errorf("action(%q) = %q", raw, rec.Action)
		}
	}
}

func TestNormalize_Truncation(t *testing.T) {
	in := validInput()
	in.Note = strings.Repeat("n", NoteMaxLen+40)
	in.Source = strings.Repeat("s", SourceMaxLen+7)
	rec, err := in.Normalize(testNow)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got := len([]rune(rec.Note)); got != NoteMaxLen {
		t.Errorf("note runes = %d, want %d", got, NoteMaxLen)
	}
	if got := len([]rune(rec.Source)); got != SourceMaxLen {
		t.Errorf("source runes = %d, want %d", got, SourceMaxLen)
	}
}

func TestTruncateRunes_MultibyteSafe(t *testing.T) {
	s := strings.Repeat("汉", 10)
	got := truncateRunes(s, 4)
	if got != strings.Repeat("汉", 4) {
		t.Errorf("truncateRunes = %q", got)
	}
}
