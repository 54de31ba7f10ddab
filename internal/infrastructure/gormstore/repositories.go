package gormstore

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Insert(ctx context.Context, category *domcat.Category) error {
	m := toCategoryModel(category)
	if err := session(ctx, r.db).Create(m).Error; err != nil {
		return translate(err, domcat.ErrNotFound)
	}
	category.ID = m.ID
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint64) (*domcat.Category, error) {
	var m CategoryModel
	if err := session(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translate(err, domcat.ErrNotFound)
	}
	return fromCategoryModel(&m), nil
}

func (r *CategoryRepository) List(ctx context.Context, offset, limit int) ([]*domcat.Category, error) {
	var ms []CategoryModel
	q := session(ctx, r.db).Order("id")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, translate(err, domcat.ErrNotFound)
	}
	out := make([]*domcat.Category, 0, len(ms))
	for i := range ms {
		out = append(out, fromCategoryModel(&ms[i]))
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *domcat.Category) error {
	res := session(ctx, r.db).Model(&CategoryModel{}).Where("id = ?", category.ID).Updates(map[string]any{
		"name":       category.Name,
		"updated_at": category.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, domcat.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domcat.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint64) error {
	res := session(ctx, r.db).Delete(&CategoryModel{}, id)
	if res.Error != nil {
		return translate(res.Error, domcat.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domcat.ErrNotFound
	}
	return nil
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Insert(ctx context.Context, product *domcat.Product) error {
	m := toProductModel(product)
	if err := session(ctx, r.db).Create(m).Error; err != nil {
		return translate(err, domcat.ErrNotFound)
	}
	product.ID = m.ID
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (*domcat.Product, error) {
	var m ProductModel
	if err := session(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translate(err, domcat.ErrNotFound)
	}
	return fromProductModel(&m), nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*domcat.Product, error) {
	var ms []ProductModel
	q := session(ctx, r.db).Order("id")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, translate(err, domcat.ErrNotFound)
	}
	out := make([]*domcat.Product, 0, len(ms))
	for i := range ms {
		out = append(out, fromProductModel(&ms[i]))
	}
	return out, nil
}

// Update deliberately leaves the stock column alone; stock moves only through
// the inventory store under row lock.
func (r *ProductRepository) Update(ctx context.Context, product *domcat.Product) error {
	res := session(ctx, r.db).Model(&ProductModel{}).Where("id = ?", product.ID).Updates(map[string]any{
		"name":        product.Name,
		"price":       product.Price,
		"image":       product.Image,
		"category_id": product.CategoryID,
		"updated_at":  product.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, domcat.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domcat.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	res := session(ctx, r.db).Delete(&ProductModel{}, id)
	if res.Error != nil {
		return translate(res.Error, domcat.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domcat.ErrNotFound
	}
	return nil
}

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Insert(ctx context.Context, c *domclient.Client) error {
	m := toClientModel(c)
	if err := session(ctx, r.db).Create(m).Error; err != nil {
		return translate(err, domclient.ErrNotFound)
	}
	c.ID = m.ID
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id uint64) (*domclient.Client, error) {
	var m ClientModel
	if err := session(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translate(err, domclient.ErrNotFound)
	}
	return fromClientModel(&m), nil
}

func (r *ClientRepository) List(ctx context.Context, offset, limit int) ([]*domclient.Client, error) {
	var ms []ClientModel
	q := session(ctx, r.db).Order("id")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, translate(err, domclient.ErrNotFound)
	}
	out := make([]*domclient.Client, 0, len(ms))
	for i := range ms {
		out = append(out, fromClientModel(&ms[i]))
	}
	return out, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domclient.Client) error {
	res := session(ctx, r.db).Model(&ClientModel{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":       c.Name,
		"lastname":   c.Lastname,
		"email":      c.Email,
		"telephone":  c.Telephone,
		"updated_at": c.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, domclient.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domclient.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id uint64) error {
	res := session(ctx, r.db).Delete(&ClientModel{}, id)
	if res.Error != nil {
		return translate(res.Error, domclient.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domclient.ErrNotFound
	}
	return nil
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Insert(ctx context.Context, o *domorder.Order) error {
	m := toOrderModel(o)
	if err := session(ctx, r.db).Create(m).Error; err != nil {
		return translate(err, domorder.ErrNotFound)
	}
	o.ID = m.ID
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*domorder.Order, error) {
	var m OrderModel
	if err := session(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translate(err, domorder.ErrNotFound)
	}
	return fromOrderModel(&m), nil
}

func (r *OrderRepository) List(ctx context.Context, offset, limit int) ([]*domorder.Order, error) {
	var ms []OrderModel
	q := session(ctx, r.db).Order("id")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, translate(err, domorder.ErrNotFound)
	}
	out := make([]*domorder.Order, 0, len(ms))
	for i := range ms {
		out = append(out, fromOrderModel(&ms[i]))
	}
	return out, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *domorder.Order) error {
	res := session(ctx, r.db).Model(&OrderModel{}).Where("id = ?", o.ID).Updates(map[string]any{
		"date":            o.Date,
		"total":           o.Total,
		"delivery_method": string(o.DeliveryMethod),
		"status":          string(o.Status),
		"client_id":       o.ClientID,
		"updated_at":      o.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, domorder.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domorder.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uint64) error {
	res := session(ctx, r.db).Delete(&OrderModel{}, id)
	if res.Error != nil {
		return translate(res.Error, domorder.ErrNotFound)
	}
	if res.RowsAffected == 0 {
		return domorder.ErrNotFound
	}
	return nil
}

type OrderLineRepository struct {
	db *gorm.DB
}

func NewOrderLineRepository(db *gorm.DB) *OrderLineRepository {
	return &OrderLineRepository{db: db}
}

func (r *OrderLineRepository) Insert(ctx context.Context, line *domorder.Line) error {
	m := toLineModel(line)
	if err := session(ctx, r.db).Create(m).Error; err != nil {
		return translate(err, domorder.ErrLineNotFound)
	}
	line.ID = m.ID
	return nil
}

func (r *OrderLineRepository) FindByID(ctx context.Context, id uint64) (*domorder.Line, error) {
	var m OrderLineModel
	if err := session(ctx, r.db).First(&m, id).Error; err != nil {
		return nil, translate(err, domorder.ErrLineNotFound)
	}
	return fromLineModel(&m), nil
}

// FindByIDForUpdate takes the line row FOR UPDATE. Under REPEATABLE READ a
// plain SELECT would serve the transaction's snapshot; the locking read
// returns the latest committed quantity instead.
func (r *OrderLineRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*domorder.Line, error) {
	var m OrderLineModel
	err := session(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, id).Error
	if err != nil {
		return nil, translate(err, domorder.ErrLineNotFound)
	}
	return fromLineModel(&m), nil
}

func (r *OrderLineRepository) List(ctx context.Context, offset, limit int) ([]*domorder.Line, error) {
	var ms []OrderLineModel
	q := session(ctx, r.db).Order("id")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, translate(err, domorder.ErrLineNotFound)
	}
	out := make([]*domorder.Line, 0, len(ms))
	for i := range ms {
		out = append(out, fromLineModel(&ms[i]))
	}
	return out, nil
}

func (r *OrderLineRepository) ListByOrder(ctx context.Context, orderID uint64) ([]*domorder.Line, error) {
	var ms []OrderLineModel
	if err := session(ctx, r.db).Where("order_id = ?", orderID).Order("id").Find(&ms).Error; err != nil {
		return nil, translate(err, domorder.ErrLineNotFound)
	}
	out := make([]*domorder.Line, 0, len(ms))
	for i := range ms {
		out = append(out, fromLineModel(&ms[i]))
	}
	return out, nil
}

func (r *OrderLineRepository) Update(ctx context.Context, line *domorder.Line) error {
	res := session(ctx, r.db).Model(&OrderLineModel{}).Where("id = ?", line.ID).Updates(map[string]any{
		"quantity":   line.Quantity,
		"price":      line.Price,
		"updated_at": line.UpdatedAt,
	})
	if res.Error != nil {
		return translate(res.Error, domorder.ErrLineNotFound)
	}
	if res.RowsAffected == 0 {
		return domorder.ErrLineNotFound
	}
	return nil
}

func (r *OrderLineRepository) Delete(ctx context.Context, id uint64) error {
	res := session(ctx, r.db).Delete(&OrderLineModel{}, id)
	if res.Error != nil {
		return translate(res.Error, domorder.ErrLineNotFound)
	}
	if res.RowsAffected == 0 {
		return domorder.ErrLineNotFound
	}
	return nil
}
