package module

import (
	"time"

	"receiptjar/internal/platform/config"
	svc "receiptjar/internal/services/receipts/service"
)

// FromConfig builds service options from the RECEIPTS_ env scope
func FromConfig(cfg config.Conf) svc.Options {
	rc := cfg.Prefix("RECEIPTS_")
	return svc.Options{
		DedupTTL:     rc.MayDuration("DEDUP_TTL", 60*time.Second),
		IndexTTL:     rc.MayDuration("INDEX_TTL", 14*24*time.Hour),
		DefaultLimit: rc.MayInt("LIST_DEFAULT_LIMIT", 50),
		MaxLimit:     rc.MayInt("LIST_MAX_LIMIT", 200),
	}
}
