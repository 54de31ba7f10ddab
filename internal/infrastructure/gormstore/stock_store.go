package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
)

// StockStore implements inventory.Store on the products table. LockForUpdate
// issues SELECT ... FOR UPDATE, so it must run inside WithinTx; the row lock
// is released by the database at commit or rollback.
type StockStore struct {
	db *gorm.DB
}

func NewStockStore(db *gorm.DB) *StockStore {
	return &StockStore{db: db}
}

func (s *StockStore) LockForUpdate(ctx context.Context, productID uint64) (*inventory.StockRecord, error) {
	var m ProductModel
	err := session(ctx, s.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, productID).Error
	if err != nil {
		return nil, translate(err, inventory.ErrNotFound)
	}
	return &inventory.StockRecord{
		ProductID: m.ID,
		Price:     m.Price,
		Quantity:  m.Stock,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (s *StockStore) Save(ctx context.Context, record *inventory.StockRecord) error {
	res := session(ctx, s.db).Model(&ProductModel{}).Where("id = ?", record.ProductID).Updates(map[string]any{
		"stock":      record.Quantity,
		"updated_at": record.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, inventory.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return inventory.ErrNotFound
	}
	return nil
}
