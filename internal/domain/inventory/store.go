package inventory

import "context"

// Store is the locking record-store port for product stock.
//
// LockForUpdate must acquire an exclusive lock on the product's row scoped to
// the transaction carried by ctx, blocking concurrent callers on the same
// product until that transaction ends. Save writes the mutated record back
// within the same transaction.
type Store interface {
	LockForUpdate(ctx context.Context, productID uint64) (*StockRecord, error)
	Save(ctx context.Context, record *StockRecord) error
}
