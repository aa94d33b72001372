package kv

import (
	"context"
	"encoding/json"
	"time"

	perr "receiptjar/internal/platform/errors"
	"receiptjar/internal/platform/kv/pg"

	"github.com/jackc/pgx/v5"
)

// pgStore implements Store on top of a pgxpool client
// each entry is one row in kv_entries and expiry is enforced in SQL
type pgStore struct {
	p *pg.PG
}

func newPGStore(p *pg.PG) *pgStore { return &pgStore{p: p} }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv_entries (
	k          text PRIMARY KEY,
	v          bytea NOT NULL,
	meta       jsonb,
	expires_at timestamptz
);
CREATE INDEX IF NOT EXISTS kv_entries_expires_at_idx
	ON kv_entries (expires_at) WHERE expires_at IS NOT NULL;
`

// ensureSchema creates the kv table when missing
func (s *pgStore) ensureSchema(ctx context.Context) error {
	start := time.Now()
	_, err := s.p.Pool.Exec(ctx, schemaSQL)
	s.emit(ctx, schemaSQL, nil, start, err)
	if err != nil {
		return perr.FromPostgresf(err, "ensure kv schema")
	}
	return nil
}

func (s *pgStore) Get(ctx context.Context, key string) (Entry, error) {
	const q = `
		SELECT v, meta, expires_at
		FROM kv_entries
		WHERE k = $1 AND (expires_at IS NULL OR expires_at > now())`

	start := time.Now()
	var (
		value []byte
		meta  []byte
		exp   *time.Time
	)
	err := s.p.Pool.QueryRow(ctx, q, key).Scan(&value, &meta, &exp)
	s.emit(ctx, q, []any{key}, start, err)
	if err == pgx.ErrNoRows {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, perr.FromPostgresf(err, "kv get %q", key)
	}

	e := Entry{Key: key, Value: value, ExpiresAt: exp}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &e.Metadata); err != nil {
			return Entry{}, perr.KVf("kv get %q: decode meta: %v", key, err)
		}
	}
	return e, nil
}

func (s *pgStore) Put(ctx context.Context, key string, value []byte, opts PutOptions) error {
	const q = `
		INSERT INTO kv_entries (k, v, meta, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (k) DO UPDATE
		SET v = EXCLUDED.v, meta = EXCLUDED.meta, expires_at = EXCLUDED.expires_at`

	meta, exp, err := encodePutArgs(opts)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = s.p.Pool.Exec(ctx, q, key, value, meta, exp)
	s.emit(ctx, q, []any{key}, start, err)
	if err != nil {
		return perr.FromPostgresf(err, "kv put %q", key)
	}
	return nil
}

func (s *pgStore) PutIfAbsent(ctx context.Context, key string, value []byte, opts PutOptions) (bool, error) {
	// the DO UPDATE arm only fires when the existing row is expired, so a
	// live row yields zero affected rows and the claim fails atomically
	const q = `
		INSERT INTO kv_entries (k, v, meta, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (k) DO UPDATE
		SET v = EXCLUDED.v, meta = EXCLUDED.meta, expires_at = EXCLUDED.expires_at
		WHERE kv_entries.expires_at IS NOT NULL AND kv_entries.expires_at <= now()`

	meta, exp, err := encodePutArgs(opts)
	if err != nil {
		return false, err
	}

	start := time.Now()
	tag, err := s.p.Pool.Exec(ctx, q, key, value, meta, exp)
	s.emit(ctx, q, []any{key}, start, err)
	if err != nil {
		return false, perr.FromPostgresf(err, "kv put-if-absent %q", key)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *pgStore) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_entries WHERE k = $1`

	start := time.Now()
	_, err := s.p.Pool.Exec(ctx, q, key)
	s.emit(ctx, q, []any{key}, start, err)
	if err != nil {
		return perr.FromPostgresf(err, "kv delete %q", key)
	}
	return nil
}

func (s *pgStore) List(ctx context.Context, prefix string, opts ListOptions) ([]Entry, error) {
	// range scan on the primary key instead of LIKE so no escaping is needed
	q := `
		SELECT k, v, meta, expires_at
		FROM kv_entries
		WHERE k >= $1
		  AND (expires_at IS NULL OR expires_at > now())`
	args := []any{prefix}

	if hi, ok := prefixEnd(prefix); ok {
		args = append(args, hi)
		q += ` AND k < $2`
	}
	if opts.Desc {
		q += ` ORDER BY k DESC`
	} else {
		q += ` ORDER BY k ASC`
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		if len(args) == 3 {
			q += ` LIMIT $3`
		} else {
			q += ` LIMIT $2`
		}
	}

	start := time.Now()
	rows, err := s.p.Pool.Query(ctx, q, args...)
	s.emit(ctx, q, []any{prefix}, start, err)
	if err != nil {
		return nil, perr.FromPostgresf(err, "kv list %q", prefix)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e    Entry
			meta []byte
		)
		if err := rows.Scan(&e.Key, &e.Value, &meta, &e.ExpiresAt); err != nil {
			return nil, perr.FromPostgresf(err, "kv list %q: scan", prefix)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &e.Metadata); err != nil {
				return nil, perr.KVf("kv list %q: decode meta: %v", prefix, err)
			}
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "kv list %q", prefix)
	}
	return out, nil
}

func (s *pgStore) Ping(ctx context.Context) error {
	if err := s.p.Pool.Ping(ctx); err != nil {
		return perr.FromPostgresf(err, "kv ping")
	}
	return nil
}

func (s *pgStore) Close(context.Context) error {
	s.p.Close()
	return nil
}

// emit sends a query event to the configured tracer
func (s *pgStore) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if s == nil || s.p == nil || s.p.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	slow := s.p.SlowMs >= 0 && elapsedUS >= int64(s.p.SlowMs)*1000
	s.p.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      slow,
	})
}

// encodePutArgs builds the meta and expires_at parameters for writes
func encodePutArgs(opts PutOptions) ([]byte, *time.Time, error) {
	var meta []byte
	if len(opts.Metadata) > 0 {
		b, err := json.Marshal(opts.Metadata)
		if err != nil {
			return nil, nil, perr.KVf("encode meta: %v", err)
		}
		meta = b
	}
	var exp *time.Time
	if opts.TTL > 0 {
		t := time.Now().UTC().Add(opts.TTL)
		exp = &t
	}
	return meta, exp, nil
}

// prefixEnd returns the smallest key greater than every key with the prefix
// ok is false when no upper bound exists (empty or all-0xff prefix)
func prefixEnd(prefix string) (string, bool) {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1]), true
		}
	}
	return "", false
}
