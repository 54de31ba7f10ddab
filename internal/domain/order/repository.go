package order

import "context"

type Repository interface {
	Insert(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id uint64) (*Order, error)
	List(ctx context.Context, offset, limit int) ([]*Order, error)
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uint64) error
}

// LineRepository persists order lines. FindByIDForUpdate returns the line's
// current committed state for mutation; call it only while the product row
// lock is already held (product first, then line), so the quantity it reports
// cannot be outrun by a concurrent line operation.
type LineRepository interface {
	Insert(ctx context.Context, line *Line) error
	FindByID(ctx context.Context, id uint64) (*Line, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*Line, error)
	List(ctx context.Context, offset, limit int) ([]*Line, error)
	ListByOrder(ctx context.Context, orderID uint64) ([]*Line, error)
	Update(ctx context.Context, line *Line) error
	Delete(ctx context.Context, id uint64) error
}
