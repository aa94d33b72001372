package module

import (
	"context"

	receiptsdom "receiptjar/internal/services/receipts/domain"
	receiptssvc "receiptjar/internal/services/receipts/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptReceiptsPort adapts the receipts service to the domain port interface
type adaptReceiptsPort struct{ svc receiptssvc.Service }

// Ingest implements the domain ServicePort interface
func (a adaptReceiptsPort) Ingest(ctx context.Context, in receiptsdom.Input) (receiptsdom.IngestResult, error) {
	return a.svc.Ingest(ctx, in)
}

// Get implements the domain ServicePort interface
func (a adaptReceiptsPort) Get(ctx context.Context, id string) (receiptsdom.Receipt, error) {
	return a.svc.Get(ctx, id)
}

// ListRecent implements the domain ServicePort interface
func (a adaptReceiptsPort) ListRecent(ctx context.Context, in receiptsdom.ListInput) ([]receiptsdom.Receipt, error) {
	return a.svc.ListRecent(ctx, in)
}
