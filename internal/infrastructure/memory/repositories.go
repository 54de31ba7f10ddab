package memory

import (
	"context"
	"sort"

	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
)

func (s *Store) Categories() domcat.CategoryRepository { return categoryRepo{s} }
func (s *Store) Products() domcat.ProductRepository    { return productRepo{s} }
func (s *Store) Clients() domclient.Repository         { return clientRepo{s} }
func (s *Store) Orders() domorder.Repository           { return orderRepo{s} }
func (s *Store) Lines() domorder.LineRepository        { return lineRepo{s} }

func clip(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	if limit <= 0 {
		limit = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return offset, end
}

type categoryRepo struct {
	s *Store
}

func (r categoryRepo) Insert(_ context.Context, category *domcat.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.categories {
		if existing.Name == category.Name {
			return storage.ErrConflict
		}
	}
	category.ID = r.s.allocID()
	clone := *category
	r.s.categories[category.ID] = &clone
	return nil
}

func (r categoryRepo) FindByID(_ context.Context, id uint64) (*domcat.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domcat.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r categoryRepo) List(_ context.Context, offset, limit int) ([]*domcat.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domcat.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	lo, hi := clip(len(out), offset, limit)
	return out[lo:hi], nil
}

func (r categoryRepo) Update(_ context.Context, category *domcat.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return domcat.ErrNotFound
	}
	for id, existing := range r.s.categories {
		if id != category.ID && existing.Name == category.Name {
			return storage.ErrConflict
		}
	}
	clone := *category
	r.s.categories[category.ID] = &clone
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domcat.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

type productRepo struct {
	s *Store
}

func (r productRepo) Insert(_ context.Context, product *domcat.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	product.ID = r.s.allocID()
	clone := *product
	r.s.products[product.ID] = &clone
	return nil
}

func (r productRepo) FindByID(_ context.Context, id uint64) (*domcat.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, domcat.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r productRepo) List(_ context.Context, offset, limit int) ([]*domcat.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domcat.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	lo, hi := clip(len(out), offset, limit)
	return out[lo:hi], nil
}

// Update writes catalog fields only; the stock column is owned by the
// inventory store and left untouched here.
func (r productRepo) Update(_ context.Context, product *domcat.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.products[product.ID]
	if !ok {
		return domcat.ErrNotFound
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.Image = product.Image
	existing.CategoryID = product.CategoryID
	existing.UpdatedAt = product.UpdatedAt
	return nil
}

func (r productRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domcat.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

type clientRepo struct {
	s *Store
}

func (r clientRepo) Insert(_ context.Context, c *domclient.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.clients {
		if existing.Email == c.Email {
			return storage.ErrConflict
		}
	}
	c.ID = r.s.allocID()
	clone := *c
	r.s.clients[c.ID] = &clone
	return nil
}

func (r clientRepo) FindByID(_ context.Context, id uint64) (*domclient.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.clients[id]
	if !ok {
		return nil, domclient.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r clientRepo) List(_ context.Context, offset, limit int) ([]*domclient.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domclient.Client, 0, len(r.s.clients))
	for _, c := range r.s.clients {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	lo, hi := clip(len(out), offset, limit)
	return out[lo:hi], nil
}

func (r clientRepo) Update(_ context.Context, c *domclient.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return domclient.ErrNotFound
	}
	for id, existing := range r.s.clients {
		if id != c.ID && existing.Email == c.Email {
			return storage.ErrConflict
		}
	}
	clone := *c
	r.s.clients[c.ID] = &clone
	return nil
}

func (r clientRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[id]; !ok {
		return domclient.ErrNotFound
	}
	delete(r.s.clients, id)
	return nil
}

type orderRepo struct {
	s *Store
}

func (r orderRepo) Insert(_ context.Context, o *domorder.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o.ID = r.s.allocID()
	clone := *o
	r.s.orders[o.ID] = &clone
	return nil
}

func (r orderRepo) FindByID(_ context.Context, id uint64) (*domorder.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, domorder.ErrNotFound
	}
	clone := *o
	return &clone, nil
}

func (r orderRepo) List(_ context.Context, offset, limit int) ([]*domorder.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domorder.Order, 0, len(r.s.orders))
	for _, o := range r.s.orders {
		clone := *o
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	lo, hi := clip(len(out), offset, limit)
	return out[lo:hi], nil
}

func (r orderRepo) Update(_ context.Context, o *domorder.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; !ok {
		return domorder.ErrNotFound
	}
	clone := *o
	r.s.orders[o.ID] = &clone
	return nil
}

func (r orderRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[id]; !ok {
		return domorder.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

type lineRepo struct {
	s *Store
}

func (r lineRepo) Insert(_ context.Context, line *domorder.Line) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	line.ID = r.s.allocID()
	clone := *line
	r.s.lines[line.ID] = &clone
	return nil
}

func (r lineRepo) FindByID(_ context.Context, id uint64) (*domorder.Line, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	l, ok := r.s.lines[id]
	if !ok {
		return nil, domorder.ErrLineNotFound
	}
	clone := *l
	return &clone, nil
}

// FindByIDForUpdate reads the line's current state. The map always holds the
// latest committed values, so freshness only requires that the caller already
// holds the product lock serialising line mutations.
func (r lineRepo) FindByIDForUpdate(ctx context.Context, id uint64) (*domorder.Line, error) {
	return r.FindByID(ctx, id)
}

func (r lineRepo) List(_ context.Context, offset, limit int) ([]*domorder.Line, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domorder.Line, 0, len(r.s.lines))
	for _, l := range r.s.lines {
		clone := *l
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	lo, hi := clip(len(out), offset, limit)
	return out[lo:hi], nil
}

func (r lineRepo) ListByOrder(_ context.Context, orderID uint64) ([]*domorder.Line, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*domorder.Line, 0)
	for _, l := range r.s.lines {
		if l.OrderID == orderID {
			clone := *l
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r lineRepo) Update(_ context.Context, line *domorder.Line) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[line.ID]; !ok {
		return domorder.ErrLineNotFound
	}
	clone := *line
	r.s.lines[line.ID] = &clone
	return nil
}

func (r lineRepo) Delete(_ context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[id]; !ok {
		return domorder.ErrLineNotFound
	}
	delete(r.s.lines, id)
	return nil
}
