package gormstore

import (
	"time"

	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
)

type CategoryModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CategoryModel) TableName() string { return "categories" }

type ProductModel struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement"`
	Name       string  `gorm:"size:255;not null"`
	Price      float64 `gorm:"not null"`
	Stock      int     `gorm:"not null"`
	Image      string  `gorm:"size:512"`
	CategoryID uint64  `gorm:"index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ProductModel) TableName() string { return "products" }

type ClientModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"size:255;not null"`
	Lastname  string `gorm:"size:255"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Telephone string `gorm:"size:64"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ClientModel) TableName() string { return "clients" }

type OrderModel struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Date           time.Time `gorm:"not null"`
	Total          float64   `gorm:"not null"`
	DeliveryMethod string    `gorm:"size:32;not null"`
	Status         string    `gorm:"size:32;not null"`
	ClientID       uint64    `gorm:"index;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (OrderModel) TableName() string { return "orders" }

type OrderLineModel struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	Quantity  int     `gorm:"not null"`
	Price     float64 `gorm:"not null"`
	OrderID   uint64  `gorm:"index;not null"`
	ProductID uint64  `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OrderLineModel) TableName() string { return "order_lines" }

func toCategoryModel(c *domcat.Category) *CategoryModel {
	return &CategoryModel{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func fromCategoryModel(m *CategoryModel) *domcat.Category {
	return &domcat.Category{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func toProductModel(p *domcat.Product) *ProductModel {
	return &ProductModel{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Stock:      p.Stock,
		Image:      p.Image,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func fromProductModel(m *ProductModel) *domcat.Product {
	return &domcat.Product{
		ID:         m.ID,
		Name:       m.Name,
		Price:      m.Price,
		Stock:      m.Stock,
		Image:      m.Image,
		CategoryID: m.CategoryID,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toClientModel(c *domclient.Client) *ClientModel {
	return &ClientModel{
		ID:        c.ID,
		Name:      c.Name,
		Lastname:  c.Lastname,
		Email:     c.Email,
		Telephone: c.Telephone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func fromClientModel(m *ClientModel) *domclient.Client {
	return &domclient.Client{
		ID:        m.ID,
		Name:      m.Name,
		Lastname:  m.Lastname,
		Email:     m.Email,
		Telephone: m.Telephone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toOrderModel(o *domorder.Order) *OrderModel {
	return &OrderModel{
		ID:             o.ID,
		Date:           o.Date,
		Total:          o.Total,
		DeliveryMethod: string(o.DeliveryMethod),
		Status:         string(o.Status),
		ClientID:       o.ClientID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func fromOrderModel(m *OrderModel) *domorder.Order {
	return &domorder.Order{
		ID:             m.ID,
		Date:           m.Date,
		Total:          m.Total,
		DeliveryMethod: domorder.DeliveryMethod(m.DeliveryMethod),
		Status:         domorder.Status(m.Status),
		ClientID:       m.ClientID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toLineModel(l *domorder.Line) *OrderLineModel {
	return &OrderLineModel{
		ID:        l.ID,
		Quantity:  l.Quantity,
		Price:     l.Price,
		OrderID:   l.OrderID,
		ProductID: l.ProductID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func fromLineModel(m *OrderLineModel) *domorder.Line {
	return &domorder.Line{
		ID:        m.ID,
		Quantity:  m.Quantity,
		Price:     m.Price,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
