package catalog

import (
	"context"
	"fmt"
	"time"

	appinv "github.com/Zhima-Mochi/storefront/app/internal/application/inventory"
	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
)

type Service struct {
	tx         storage.TxManager
	categories domcat.CategoryRepository
	products   domcat.ProductRepository
	ledger     *appinv.Ledger
}

func NewService(
	tx storage.TxManager,
	categories domcat.CategoryRepository,
	products domcat.ProductRepository,
	ledger *appinv.Ledger,
) *Service {
	return &Service{tx: tx, categories: categories, products: products, ledger: ledger}
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*domcat.Category, error) {
	category, err := domcat.NewCategory(name)
	if err != nil {
		return nil, err
	}
	if err := s.categories.Insert(ctx, category); err != nil {
		return nil, fmt.Errorf("catalog: insert category: %w", err)
	}
	return category, nil
}

func (s *Service) GetCategory(ctx context.Context, id uint64) (*domcat.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context, offset, limit int) ([]*domcat.Category, error) {
	return s.categories.List(ctx, offset, limit)
}

func (s *Service) UpdateCategory(ctx context.Context, id uint64, name string) (*domcat.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("catalog: update category: %w", err)
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uint64) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

type ProductInput struct {
	Name       string
	Price      float64
	Stock      int
	Image      string
	CategoryID uint64
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*domcat.Product, error) {
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("catalog: resolve category: %w", err)
	}
	product, err := domcat.NewProduct(in.Name, in.Price, in.Stock, in.Image, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := s.products.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("catalog: insert product: %w", err)
	}
	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, id uint64) (*domcat.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, offset, limit int) ([]*domcat.Product, error) {
	return s.products.List(ctx, offset, limit)
}

// UpdateProduct writes catalog fields directly but routes the stock change
// through the ledger as an absolute target, inside the same transaction, so
// the stock invariants hold even for administrative corrections. A delta
// computed from a pre-lock read could be skewed by a concurrent ledger
// operation; Ledger.Set applies the requested level under the row lock
// regardless of what traffic landed in between.
func (s *Service) UpdateProduct(ctx context.Context, id uint64, in ProductInput) (*domcat.Product, error) {
	if in.Name == "" {
		return nil, domcat.ErrNameRequired
	}
	if in.Price < 0 {
		return nil, domcat.ErrInvalidPrice
	}
	if in.Stock < 0 {
		return nil, domcat.ErrInvalidStock
	}
	var out *domcat.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if in.CategoryID != product.CategoryID {
			if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
				return fmt.Errorf("catalog: resolve category: %w", err)
			}
		}
		if _, err := s.ledger.Set(ctx, id, in.Stock); err != nil {
			return err
		}
		product.Name = in.Name
		product.Price = in.Price
		product.Image = in.Image
		product.CategoryID = in.CategoryID
		product.UpdatedAt = time.Now().UTC()
		if err := s.products.Update(ctx, product); err != nil {
			return fmt.Errorf("catalog: update product: %w", err)
		}
		product.Stock = in.Stock
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uint64) error {
	if _, err := s.products.FindByID(ctx, id); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}
