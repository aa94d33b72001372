package domain

import "context"

// IngestResult is the outcome of a submission
type IngestResult struct {
	// Receipt is set when a new record was written
	Receipt Receipt

	// Duplicate is true when the submission hit the dedup window and
	// nothing was written
	Duplicate bool
}

// ServicePort defines the service contract for receipts
type ServicePort interface {
	Ingest(ctx context.Context, in Input) (IngestResult, error)
	Get(ctx context.Context, id string) (Receipt, error)
	ListRecent(ctx context.Context, in ListInput) ([]Receipt, error)
}
