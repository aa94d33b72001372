// Package fingerprint computes the deterministic dedup key for a receipt.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Canonical returns the joined dedup tuple for a receipt.
// Formula: UPPER(symbol)|UPPER(action)|price|size|source
// Timestamp and note are deliberately excluded so resubmissions that differ
// only in those fields still collapse to one fingerprint.
func Canonical(symbol, action string, price, size float64, source string) string {
	return strings.Join([]string{
		strings.ToUpper(symbol),
		strings.ToUpper(action),
		strconv.FormatFloat(price, 'f', -1, 64),
		strconv.FormatFloat(size, 'f', -1, 64),
		source,
	}, "|")
}

// Compute returns the SHA256 of the canonical tuple.
// Returns hex-encoded hash (64 characters), safe for use inside store keys.
func Compute(symbol, action string, price, size float64, source string) string {
	hash := sha256.Sum256([]byte(Canonical(symbol, action, price, size, source)))
	return hex.EncodeToString(hash[:])
}
