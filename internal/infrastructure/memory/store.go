// Package memory implements every storage port in process. It backs the
// service when no database is configured and gives tests a record store whose
// locking behaves like the real one: per-product exclusive locks with a
// bounded wait, held until the enclosing transaction ends.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
)

var errNoTx = errors.New("memory: row lock requires a transaction")

type Store struct {
	mu     sync.RWMutex
	nextID uint64

	categories map[uint64]*domcat.Category
	products   map[uint64]*domcat.Product
	clients    map[uint64]*domclient.Client
	orders     map[uint64]*domorder.Order
	lines      map[uint64]*domorder.Line

	lockMu   sync.Mutex
	rowLocks map[uint64]chan struct{}
	lockWait time.Duration
}

func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = 2 * time.Second
	}
	return &Store{
		categories: make(map[uint64]*domcat.Category),
		products:   make(map[uint64]*domcat.Product),
		clients:    make(map[uint64]*domclient.Client),
		orders:     make(map[uint64]*domorder.Order),
		lines:      make(map[uint64]*domorder.Line),
		rowLocks:   make(map[uint64]chan struct{}),
		lockWait:   lockWait,
	}
}

func (s *Store) allocID() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Store) rowLock(productID uint64) chan struct{} {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	ch, ok := s.rowLocks[productID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.rowLocks[productID] = ch
	}
	return ch
}

// Stock returns the inventory.Store view of the product table.
func (s *Store) Stock() inventory.Store {
	return stockStore{s: s}
}

type stockStore struct {
	s *Store
}

// LockForUpdate acquires the product's exclusive lock, registering the
// release with the transaction in ctx so the lock outlives this call until
// commit. Waiting is bounded by the store's lock-wait timeout.
func (ss stockStore) LockForUpdate(ctx context.Context, productID uint64) (*inventory.StockRecord, error) {
	t := txFrom(ctx)
	if t == nil {
		return nil, errNoTx
	}
	ch := ss.s.rowLock(productID)

	timer := time.NewTimer(ss.s.lockWait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		t.add(func() { <-ch })
	case <-timer.C:
		return nil, inventory.ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	ss.s.mu.RLock()
	defer ss.s.mu.RUnlock()
	p, ok := ss.s.products[productID]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	return &inventory.StockRecord{
		ProductID: productID,
		Price:     p.Price,
		Quantity:  p.Stock,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (ss stockStore) Save(_ context.Context, record *inventory.StockRecord) error {
	ss.s.mu.Lock()
	defer ss.s.mu.Unlock()
	p, ok := ss.s.products[record.ProductID]
	if !ok {
		return inventory.ErrNotFound
	}
	p.Stock = record.Quantity
	p.UpdatedAt = record.UpdatedAt
	return nil
}
