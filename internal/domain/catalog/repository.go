package catalog

import "context"

type CategoryRepository interface {
	Insert(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uint64) (*Category, error)
	List(ctx context.Context, offset, limit int) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uint64) error
}

// ProductRepository persists catalog data. Update writes catalog fields only;
// the stock column belongs to inventory.Store.
type ProductRepository interface {
	Insert(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id uint64) (*Product, error)
	List(ctx context.Context, offset, limit int) ([]*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uint64) error
}
