package inventory

import (
	"errors"
	"math"
	"time"
)

var (
	ErrNotFound          = errors.New("inventory: product not found")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
	ErrPriceMismatch     = errors.New("inventory: price mismatch")
	ErrQuantityOverflow  = errors.New("inventory: quantity overflow")

	// ErrLockTimeout reports that the exclusive lock on the stock record
	// could not be acquired in time. Transient: the caller may retry.
	ErrLockTimeout = errors.New("inventory: lock wait timeout")
)

// StockRecord is the stock view of a product row. It is only ever mutated
// while the underlying row is exclusively locked.
type StockRecord struct {
	ProductID uint64
	Price     float64
	Quantity  int
	UpdatedAt time.Time
}

// Reserve validates the expected price against the record's current price and
// then deducts quantity. Price validation happens under the same lock as the
// deduction, so the caller decides on the price it actually read.
func (r *StockRecord) Reserve(quantity int, expectedPrice float64) error {
	if r.Price != expectedPrice {
		return ErrPriceMismatch
	}
	return r.Deduct(quantity)
}

// Deduct removes quantity from stock, failing if stock would go negative.
func (r *StockRecord) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > r.Quantity {
		return ErrInsufficientStock
	}
	r.Quantity -= quantity
	r.touch()
	return nil
}

// Restore returns quantity to stock. There is no upper bound beyond overflow.
func (r *StockRecord) Restore(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.Quantity > math.MaxInt-quantity {
		return ErrQuantityOverflow
	}
	r.Quantity += quantity
	r.touch()
	return nil
}

// SetQuantity replaces the stock level outright, bypassing delta arithmetic.
// The caller supplies the absolute target; it must not be negative.
func (r *StockRecord) SetQuantity(quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	r.Quantity = quantity
	r.touch()
	return nil
}

func (r *StockRecord) touch() {
	r.UpdatedAt = time.Now().UTC()
}
