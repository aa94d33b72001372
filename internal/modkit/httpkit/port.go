// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perrs "receiptjar/internal/platform/errors"
)

// APIKey implements middleware.AuthPort by comparing a shared key against
// the X-API-Key header or an Authorization Bearer token
type APIKey struct {
	key string
}

// NewAPIKey builds the port, an empty key returns nil so callers can mount
// the auth middleware unconditionally and let it pass through
func NewAPIKey(key string) *APIKey {
	if key == "" {
		return nil
	}
	return &APIKey{key: key}
}

// Authenticate checks the presented key and names the caller on success
func (p *APIKey) Authenticate(r *http.Request) (string, error) {
	presented := strings.TrimSpace(r.Header.Get("X-API-Key"))
	if presented == "" {
		presented = bearerToken(r.Header.Get("Authorization"))
	}
	if presented == "" {
		return "", perrs.Unauthorizedf("missing api key")
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(p.key)) != 1 {
		return "", perrs.Unauthorizedf("invalid api key")
	}
	return "api-key", nil
}

// bearerToken extracts the token from an Authorization Bearer header
// returns empty when the header is missing or malformed
func bearerToken(authz string) string {
	s := strings.TrimSpace(authz)
	if s == "" {
		return ""
	}
	const prefix = "bearer"
	if !strings.HasPrefix(strings.ToLower(s), prefix) {
		return ""
	}
	return strings.TrimSpace(s[len(prefix):])
}
