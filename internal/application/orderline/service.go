// Package orderline manages the order-line lifecycle over the inventory
// ledger: absent -> create -> active -> update* -> active -> delete -> absent.
// Stock moved by a line is conserved across that whole lifecycle.
package orderline

import (
	"context"
	"fmt"

	appinv "github.com/Zhima-Mochi/storefront/app/internal/application/inventory"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
	"github.com/Zhima-Mochi/storefront/app/internal/pkg/logging"
	"go.uber.org/zap"
)

type Service struct {
	tx       storage.TxManager
	lines    domorder.LineRepository
	orders   domorder.Repository
	products catalog.ProductRepository
	ledger   *appinv.Ledger
}

func NewService(
	tx storage.TxManager,
	lines domorder.LineRepository,
	orders domorder.Repository,
	products catalog.ProductRepository,
	ledger *appinv.Ledger,
) *Service {
	return &Service{
		tx:       tx,
		lines:    lines,
		orders:   orders,
		products: products,
		ledger:   ledger,
	}
}

type CreateInput struct {
	OrderID   uint64
	ProductID uint64
	Quantity  int
	// Price, when set, must equal the product's current price; when nil it
	// is filled from the product.
	Price *float64
}

type UpdateInput struct {
	Quantity int
	Price    *float64
}

// Create reserves stock first and persists the line only after the
// reservation committed. If the insert then fails, a compensating release
// runs before the error propagates, so stock is never left decremented
// without a committed line.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domorder.Line, error) {
	if _, err := s.orders.FindByID(ctx, in.OrderID); err != nil {
		return nil, fmt.Errorf("orderline: resolve order: %w", err)
	}
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("orderline: resolve product: %w", err)
	}

	price := product.Price
	if in.Price != nil {
		price = *in.Price
	}
	line, err := domorder.NewLine(in.OrderID, in.ProductID, in.Quantity, price)
	if err != nil {
		return nil, err
	}

	// The reservation re-validates price equality under the product lock.
	if _, err := s.ledger.Reserve(ctx, in.ProductID, in.Quantity, price); err != nil {
		return nil, err
	}

	if err := s.lines.Insert(ctx, line); err != nil {
		if _, relErr := s.ledger.Release(ctx, in.ProductID, in.Quantity); relErr != nil {
			logging.FromContext(ctx).Error("orderline_compensation_failed",
				zap.Uint64("product_id", in.ProductID),
				zap.Int("quantity", in.Quantity),
				zap.Error(relErr),
			)
		}
		return nil, fmt.Errorf("orderline: insert: %w", err)
	}
	return line, nil
}

// Update adjusts stock by the signed delta between old and new quantity and
// persists the line inside one transaction; on any failure nothing commits.
// The delta is computed from a re-read of the line taken under the product
// lock: a quantity read before the lock could be outrun by a concurrent
// operation on the same line, and the delta would then leak stock.
func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*domorder.Line, error) {
	if in.Quantity <= 0 {
		return nil, domorder.ErrInvalidLineQuantity
	}
	var out *domorder.Line
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		line, err := s.lines.FindByID(ctx, id)
		if err != nil {
			return err
		}
		var fresh *domorder.Line
		if _, err := s.ledger.AdjustBy(ctx, line.ProductID, func(ctx context.Context) (int, error) {
			fresh, err = s.lines.FindByIDForUpdate(ctx, id)
			if err != nil {
				return 0, err
			}
			return -(in.Quantity - fresh.Quantity), nil
		}); err != nil {
			return err
		}
		price := fresh.Price
		if in.Price != nil {
			price = *in.Price
		}
		if err := fresh.Apply(in.Quantity, price); err != nil {
			return err
		}
		if err := s.lines.Update(ctx, fresh); err != nil {
			return err
		}
		out = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete restores the line's full quantity to stock and removes the row in
// one transaction: there is no state where stock is restored but the line
// still exists, or the reverse. The released quantity comes from a re-read of
// the line under the product lock, for the same reason Update re-reads.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		line, err := s.lines.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.ledger.ReleaseBy(ctx, line.ProductID, func(ctx context.Context) (int, error) {
			fresh, err := s.lines.FindByIDForUpdate(ctx, id)
			if err != nil {
				return 0, err
			}
			return fresh.Quantity, nil
		}); err != nil {
			return err
		}
		return s.lines.Delete(ctx, id)
	})
}

func (s *Service) Get(ctx context.Context, id uint64) (*domorder.Line, error) {
	return s.lines.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, offset, limit int) ([]*domorder.Line, error) {
	return s.lines.List(ctx, offset, limit)
}

func (s *Service) ListByOrder(ctx context.Context, orderID uint64) ([]*domorder.Line, error) {
	return s.lines.ListByOrder(ctx, orderID)
}
