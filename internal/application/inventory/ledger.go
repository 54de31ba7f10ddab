// Package inventory implements the stock ledger. All stock movement in the
// system goes through the Ledger, one product per operation, with the row
// exclusively locked for the duration of the mutation.
package inventory

import (
	"context"
	"errors"
	"fmt"

	dominv "github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
	"github.com/Zhima-Mochi/storefront/app/internal/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const tracerName = "storefront.inventory"

type Ledger struct {
	tx    storage.TxManager
	store dominv.Store
	// ops counts ledger_operations_total{op,outcome}; optional.
	ops *prometheus.CounterVec
}

func NewLedger(tx storage.TxManager, store dominv.Store, ops *prometheus.CounterVec) *Ledger {
	return &Ledger{tx: tx, store: store, ops: ops}
}

// Reserve decrements stock by quantity after validating that expectedPrice
// matches the record's current price and that enough stock remains. Lock,
// validation and mutation are one atomic unit: a concurrent Reserve on the
// same product observes this decrement only after the transaction commits.
func (l *Ledger) Reserve(ctx context.Context, productID uint64, quantity int, expectedPrice float64) (*dominv.StockRecord, error) {
	return l.run(ctx, "reserve", productID, func(_ context.Context, rec *dominv.StockRecord) error {
		return rec.Reserve(quantity, expectedPrice)
	})
}

// Release restores quantity to stock under the same locking discipline.
func (l *Ledger) Release(ctx context.Context, productID uint64, quantity int) (*dominv.StockRecord, error) {
	return l.ReleaseBy(ctx, productID, func(context.Context) (int, error) {
		return quantity, nil
	})
}

// ReleaseBy restores a quantity computed under the product lock. The callback
// runs with the row exclusively locked and the transaction context, so it can
// re-read the rows that justify the release without racing concurrent
// operations on the same product.
func (l *Ledger) ReleaseBy(ctx context.Context, productID uint64, quantity func(ctx context.Context) (int, error)) (*dominv.StockRecord, error) {
	return l.run(ctx, "release", productID, func(ctx context.Context, rec *dominv.StockRecord) error {
		qty, err := quantity(ctx)
		if err != nil {
			return err
		}
		return rec.Restore(qty)
	})
}

// Adjust applies a signed stock delta: delta < 0 behaves as a bounded
// deduction of -delta, delta > 0 as a release of delta. A zero delta locks
// the row and leaves it unchanged.
func (l *Ledger) Adjust(ctx context.Context, productID uint64, delta int) (*dominv.StockRecord, error) {
	return l.AdjustBy(ctx, productID, func(context.Context) (int, error) {
		return delta, nil
	})
}

// AdjustBy applies a signed delta computed under the product lock, with the
// same callback contract as ReleaseBy.
func (l *Ledger) AdjustBy(ctx context.Context, productID uint64, delta func(ctx context.Context) (int, error)) (*dominv.StockRecord, error) {
	return l.run(ctx, "adjust", productID, func(ctx context.Context, rec *dominv.StockRecord) error {
		d, err := delta(ctx)
		if err != nil {
			return err
		}
		switch {
		case d < 0:
			return rec.Deduct(-d)
		case d > 0:
			return rec.Restore(d)
		}
		return nil
	})
}

// Set writes an absolute stock level under the row lock. Administrative
// corrections use this instead of a delta so the target survives concurrent
// ledger traffic: whatever the stock was when the lock was granted, it is
// quantity afterwards.
func (l *Ledger) Set(ctx context.Context, productID uint64, quantity int) (*dominv.StockRecord, error) {
	return l.run(ctx, "set", productID, func(_ context.Context, rec *dominv.StockRecord) error {
		return rec.SetQuantity(quantity)
	})
}

// run executes one ledger operation inside the transaction carried by ctx,
// or a fresh one. The product row stays locked until that transaction ends.
func (l *Ledger) run(ctx context.Context, op string, productID uint64, mutate func(context.Context, *dominv.StockRecord) error) (_ *dominv.StockRecord, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "Ledger."+op)
	span.SetAttributes(attribute.Int64("product.id", int64(productID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		if l.ops != nil {
			l.ops.WithLabelValues(op, outcomeFor(err)).Inc()
		}
		span.End()
	}()

	var out *dominv.StockRecord
	err = l.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, lockErr := l.store.LockForUpdate(ctx, productID)
		if lockErr != nil {
			return lockErr
		}
		if mutErr := mutate(ctx, rec); mutErr != nil {
			return mutErr
		}
		if saveErr := l.store.Save(ctx, rec); saveErr != nil {
			return saveErr
		}
		out = rec
		return nil
	})
	if err != nil {
		logging.FromContext(ctx).Warn("ledger_operation_failed",
			zap.String("op", op),
			zap.Uint64("product_id", productID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("ledger: %s: %w", op, err)
	}
	return out, nil
}

func outcomeFor(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, dominv.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, dominv.ErrPriceMismatch):
		return "price_mismatch"
	case errors.Is(err, dominv.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, dominv.ErrNotFound):
		return "not_found"
	}
	return "error"
}
