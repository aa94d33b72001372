// Package repo provides key-value access for receipts
package repo

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	perr "receiptjar/internal/platform/errors"
	"receiptjar/internal/platform/kv"
	"receiptjar/internal/services/receipts/domain"
)

// Key layout. The index timestamp is fixed width so lexicographic key order
// matches chronological order
const (
	receiptPrefix = "receipt:"
	dedupPrefix   = "dedup:"
	indexPrefix   = "idx:"

	indexTSFormat = "2006-01-02T15:04:05.000000000Z"
)

// IndexEntry is one parsed listing index row
type IndexEntry struct {
	ID     string
	Symbol string
}

// Repo defines the store contract for receipts
type Repo interface {
	// TryAcquire claims the dedup marker for fingerprint, reporting whether
	// this submission won the window
	TryAcquire(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)

	// PutReceipt writes the primary record keyed by id
	PutReceipt(ctx context.Context, rec domain.Receipt) error

	// PutIndex writes the listing index entry for rec with the given expiry
	PutIndex(ctx context.Context, rec domain.Receipt, createdAt time.Time, ttl time.Duration) error

	// GetReceipt reads the primary record, found=false when absent
	GetReceipt(ctx context.Context, id string) (rec domain.Receipt, found bool, err error)

	// ListIndex returns up to limit index entries, most recent first
	ListIndex(ctx context.Context, limit int) ([]IndexEntry, error)
}

// KV implements Repo on the platform kv seam
type KV struct {
	store kv.Store
}

// New builds the repo, a nil store is tolerated and surfaces as kv_missing
// on first use so handlers keep their response contract without the backend
func New(store kv.Store) *KV { return &KV{store: store} }

func (r *KV) guard() error {
	if r == nil || r.store == nil {
		return perr.KVMissingf("kv store is not configured")
	}
	return nil
}

func (r *KV) TryAcquire(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	if err := r.guard(); err != nil {
		return false, err
	}
	return r.store.PutIfAbsent(ctx, dedupPrefix+fingerprint, []byte("1"), kv.PutOptions{TTL: ttl})
}

func (r *KV) PutReceipt(ctx context.Context, rec domain.Receipt) error {
	if err := r.guard(); err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return perr.Internalf("encode receipt %s: %v", rec.ID, err)
	}
	// symbol and action ride along as metadata so tooling can filter
	// without deserializing values
	return r.store.Put(ctx, receiptPrefix+rec.ID, raw, kv.PutOptions{
		Metadata: map[string]any{
			"symbol": rec.Symbol,
			"action": string(rec.Action),
		},
	})
}

func (r *KV) PutIndex(ctx context.Context, rec domain.Receipt, createdAt time.Time, ttl time.Duration) error {
	if err := r.guard(); err != nil {
		return err
	}
	key := indexPrefix + createdAt.UTC().Format(indexTSFormat) + ":" + rec.ID
	return r.store.Put(ctx, key, []byte(rec.Symbol), kv.PutOptions{TTL: ttl})
}

func (r *KV) GetReceipt(ctx context.Context, id string) (domain.Receipt, bool, error) {
	if err := r.guard(); err != nil {
		return domain.Receipt{}, false, err
	}
	e, err := r.store.Get(ctx, receiptPrefix+id)
	if kv.IsNotFound(err) {
		return domain.Receipt{}, false, nil
	}
	if err != nil {
		return domain.Receipt{}, false, err
	}
	var rec domain.Receipt
	if err := json.Unmarshal(e.Value, &rec); err != nil {
		return domain.Receipt{}, false, perr.Internalf("decode receipt %s: %v", id, err)
	}
	return rec, true, nil
}

func (r *KV) ListIndex(ctx context.Context, limit int) ([]IndexEntry, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	entries, err := r.store.List(ctx, indexPrefix, kv.ListOptions{Limit: limit, Desc: true})
	if err != nil {
		return nil, err
	}
	out := make([]IndexEntry, 0, len(entries))
	for _, e := range entries {
		id, ok := indexID(e.Key)
		if !ok {
			continue
		}
		out = append(out, IndexEntry{ID: id, Symbol: string(e.Value)})
	}
	return out, nil
}

// indexID pulls the receipt id out of an idx:<ts>:<id> key
func indexID(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, indexPrefix)
	if !ok {
		return "", false
	}
	i := strings.LastIndexByte(rest, ':')
	if i < 0 || i == len(rest)-1 {
		return "", false
	}
	return rest[i+1:], true
}
