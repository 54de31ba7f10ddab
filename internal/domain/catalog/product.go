package catalog

import "time"

// Product carries both catalog data and the stock counter. The stock field is
// written exclusively through the inventory ledger under lock discipline;
// catalog updates never touch it directly.
type Product struct {
	ID         uint64
	Name       string
	Price      float64
	Stock      int
	Image      string
	CategoryID uint64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewProduct(name string, price float64, stock int, image string, categoryID uint64) (*Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}
	if categoryID == 0 {
		return nil, ErrCategoryRequired
	}
	now := time.Now().UTC()
	return &Product{
		Name:       name,
		Price:      price,
		Stock:      stock,
		Image:      image,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
