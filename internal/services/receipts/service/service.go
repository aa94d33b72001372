// Package service contains the receipt ingestion workflow
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"receiptjar/internal/core/fingerprint"
	perr "receiptjar/internal/platform/errors"
	"receiptjar/internal/platform/logger"
	"receiptjar/internal/services/receipts/domain"
	"receiptjar/internal/services/receipts/repo"
)

// Service defines the service contract for receipts
type Service interface{ domain.ServicePort }

// Options tunes the dedup window and listing bounds
type Options struct {
	DedupTTL     time.Duration
	IndexTTL     time.Duration
	DefaultLimit int
	MaxLimit     int
}

// Defaults fills zero fields with the stock values
func (o Options) Defaults() Options {
	if o.DedupTTL <= 0 {
		o.DedupTTL = 60 * time.Second
	}
	if o.IndexTTL <= 0 {
		o.IndexTTL = 14 * 24 * time.Hour
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 50
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = 200
	}
	return o
}

// Svc implements the Service interface
type Svc struct {
	Repo repo.Repo
	log  logger.Logger
	opts Options

	// seams for tests
	now   func() time.Time
	newID func() string
}

// New creates a new receipts service
func New(r repo.Repo, log logger.Logger, opts Options) *Svc {
	if r == nil {
		panic("receipts.Service requires a non nil Repo")
	}
	return &Svc{
		Repo:  r,
		log:   log,
		opts:  opts.Defaults(),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Ingest validates in, applies the dedup window, and persists the receipt
// plus its listing index entry
func (s *Svc) Ingest(ctx context.Context, in domain.Input) (domain.IngestResult, error) {
	now := s.now().UTC()

	rec, err := in.Normalize(now)
	if err != nil {
		return domain.IngestResult{}, err
	}

	fp := fingerprint.Compute(rec.Symbol, string(rec.Action), rec.Price, rec.Size, rec.Source)
	acquired, err := s.Repo.TryAcquire(ctx, fp, s.opts.DedupTTL)
	if err != nil {
		return domain.IngestResult{}, err
	}
	if !acquired {
		// recently seen, answer success without writing and without
		// refreshing the marker
		return domain.IngestResult{Duplicate: true}, nil
	}

	rec.ID = s.newID()
	rec.CreatedAt = now.Format(time.RFC3339)

	if err := s.Repo.PutReceipt(ctx, rec); err != nil {
		return domain.IngestResult{}, err
	}

	// listing is best effort, a failed index write degrades listings but
	// the receipt itself is persisted and retrievable
	if err := s.Repo.PutIndex(ctx, rec, now, s.opts.IndexTTL); err != nil {
		s.log.Warn().
			Err(err).
			Str("receipt_id", rec.ID).
			Msg("index write failed, receipt persisted without listing entry")
	}

	return domain.IngestResult{Receipt: rec}, nil
}

// Get retrieves one receipt by id
func (s *Svc) Get(ctx context.Context, id string) (domain.Receipt, error) {
	rec, found, err := s.Repo.GetReceipt(ctx, id)
	if err != nil {
		return domain.Receipt{}, err
	}
	if !found {
		return domain.Receipt{}, perr.NotFoundf("receipt %s not found", id)
	}
	return rec, nil
}

// ListRecent returns up to the clamped limit of receipts, most recent first
// index entries whose primary record has expired are silently skipped
func (s *Svc) ListRecent(ctx context.Context, in domain.ListInput) ([]domain.Receipt, error) {
	limit := s.clampLimit(in.Limit)

	entries, err := s.Repo.ListIndex(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Receipt, 0, len(entries))
	for _, e := range entries {
		rec, found, err := s.Repo.GetReceipt(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue // stale index entry
		}
		out = append(out, rec)
	}
	return out, nil
}

// clampLimit applies the default and the hard bounds
func (s *Svc) clampLimit(n int) int {
	if n == 0 {
		return s.opts.DefaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > s.opts.MaxLimit {
		return s.opts.MaxLimit
	}
	return n
}
