package order

import (
	"errors"
	"time"
)

var ErrInvalidLineQuantity = errors.New("order: line quantity must be greater than zero")

// Line is one order line. Its quantity is the sole justification for its
// claim on product stock: stock moves only when a line is created, updated
// or deleted, and always by the ledger.
type Line struct {
	ID        uint64
	Quantity  int
	Price     float64
	OrderID   uint64
	ProductID uint64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewLine(orderID, productID uint64, quantity int, price float64) (*Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidLineQuantity
	}
	now := time.Now().UTC()
	return &Line{
		Quantity:  quantity,
		Price:     price,
		OrderID:   orderID,
		ProductID: productID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (l *Line) Apply(quantity int, price float64) error {
	if quantity <= 0 {
		return ErrInvalidLineQuantity
	}
	l.Quantity = quantity
	l.Price = price
	l.UpdatedAt = time.Now().UTC()
	return nil
}
