package analytics

import "context"

// Service computes trend, breakdown and punctuality projections over
// the attendance ledger. Never fails on an empty ledger; a quiet
// period yields a zero-valued snapshot.
type Service interface {
	Compute(ctx context.Context) (Snapshot, error)
}
