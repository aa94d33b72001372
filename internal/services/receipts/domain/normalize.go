package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"receiptjar/internal/core/normalize"
	perr "receiptjar/internal/platform/errors"
)

// Field limits and defaults
const (
	NoteMaxLen    = 500
	SourceMaxLen  = 120
	DefaultSource = "manual"
)

// Normalize validates in rule by rule and returns the receipt sans ID and
// CreatedAt. The first failing rule short-circuits, no side effects
func (in Input) Normalize(now time.Time) (Receipt, error) {
	// 1 symbol
	symbol := normalize.Field(in.Symbol)
	if symbol == "" {
		return Receipt{}, perr.BadRequestf("symbol is required")
	}

	// 2 action
	action := Action(normalize.Upper(in.Action))
	if !action.valid() {
		return Receipt{}, perr.BadRequestf("action must be one of %v", Actions)
	}

	// 3 price
	price, err := coerceNumber(in.Price)
	if err != nil {
		return Receipt{}, perr.BadRequestf("price must be a number")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return Receipt{}, perr.BadRequestf("price must be greater than 0")
	}

	// 4 size, absent means 0
	size := 0.0
	if in.Size != nil {
		size, err = coerceNumber(in.Size)
		if err != nil {
			return Receipt{}, perr.BadRequestf("size must be a number")
		}
		if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
			return Receipt{}, perr.BadRequestf("size must be zero or greater")
		}
	}

	// 5 timestamp, stringified as-is, defaulting to ingest time
	ts, err := stringifyTS(in.TS, now)
	if err != nil {
		return Receipt{}, err
	}

	// 6 note and source, truncated to their caps
	note := truncateRunes(in.Note, NoteMaxLen)
	source := normalize.Field(in.Source)
	if source == "" {
		source = DefaultSource
	}
	source = truncateRunes(source, SourceMaxLen)

	return Receipt{
		Symbol: symbol,
		Action: action,
		Price:  price,
		Size:   size,
		TS:     ts,
		Note:   note,
		Source: source,
	}, nil
}

// coerceNumber accepts JSON numbers and numeric strings
func coerceNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, err
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

// stringifyTS renders a scalar ts as a string without format validation
func stringifyTS(v any, now time.Time) (string, error) {
	switch t := v.(type) {
	case nil:
		return now.UTC().Format(time.RFC3339), nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		// objects and arrays have no sensible stringification
		return "", perr.BadRequestf("ts must be a string or number")
	}
}

// truncateRunes caps s at n runes without splitting a multibyte char
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
