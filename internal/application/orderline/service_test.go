package orderline

import (
	"context"
	"errors"
	"testing"
	"time"

	appinv "github.com/Zhima-Mochi/storefront/app/internal/application/inventory"
	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	dominv "github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	domorder "github.com/Zhima-Mochi/storefront/app/internal/domain/order"
	"github.com/Zhima-Mochi/storefront/app/internal/infrastructure/memory"
)

type fixture struct {
	store   *memory.Store
	service *Service
	orderID uint64
	product *domcat.Product
}

func newFixture(t *testing.T, stock int) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(time.Second)
	tx := memory.NewTxManager()

	product, err := domcat.NewProduct("gadget", 19.90, stock, "", 1)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	if err := store.Products().Insert(ctx, product); err != nil {
		t.Fatalf("insert product: %v", err)
	}

	buyer, err := domclient.New("Ada", "Lovelace", "ada@example.com", "555-0100")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := store.Clients().Insert(ctx, buyer); err != nil {
		t.Fatalf("insert client: %v", err)
	}

	ord, err := domorder.New(time.Time{}, 0, domorder.DeliveryPickup, "", buyer.ID)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	if err := store.Orders().Insert(ctx, ord); err != nil {
		t.Fatalf("insert order: %v", err)
	}

	ledger := appinv.NewLedger(tx, store.Stock(), nil)
	service := NewService(tx, store.Lines(), store.Orders(), store.Products(), ledger)
	return &fixture{store: store, service: service, orderID: ord.ID, product: product}
}

func (f *fixture) stock(t *testing.T) int {
	t.Helper()
	p, err := f.store.Products().FindByID(context.Background(), f.product.ID)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	return p.Stock
}

func TestCreateReservesStock(t *testing.T) {
	f := newFixture(t, 10)

	line, err := f.service.Create(context.Background(), CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if line.ID == 0 {
		t.Fatal("line id not assigned")
	}
	if line.Price != f.product.Price {
		t.Fatalf("price = %v, want autofilled %v", line.Price, f.product.Price)
	}
	if got := f.stock(t); got != 7 {
		t.Fatalf("stock = %d, want 7", got)
	}
}

func TestCreateRejectsPriceMismatch(t *testing.T) {
	f := newFixture(t, 10)

	stale := 18.00
	_, err := f.service.Create(context.Background(), CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  1,
		Price:     &stale,
	})
	if !errors.Is(err, dominv.ErrPriceMismatch) {
		t.Fatalf("err = %v, want ErrPriceMismatch", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock = %d, want 10", got)
	}
}

func TestCreateRejectsInsufficientStock(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.service.Create(context.Background(), CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  3,
	})
	if !errors.Is(err, dominv.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := f.stock(t); got != 2 {
		t.Fatalf("stock = %d, want 2", got)
	}
}

func TestCreateUnknownOrder(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.service.Create(context.Background(), CreateInput{
		OrderID:   9999,
		ProductID: f.product.ID,
		Quantity:  1,
	})
	if !errors.Is(err, domorder.ErrNotFound) {
		t.Fatalf("err = %v, want order.ErrNotFound", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock = %d, want 10", got)
	}
}

func TestCreateUnknownProduct(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.service.Create(context.Background(), CreateInput{
		OrderID:   f.orderID,
		ProductID: 9999,
		Quantity:  1,
	})
	if !errors.Is(err, domcat.ErrNotFound) {
		t.Fatalf("err = %v, want catalog.ErrNotFound", err)
	}
}

type failingLines struct {
	domorder.LineRepository
}

func (failingLines) Insert(context.Context, *domorder.Line) error {
	return errors.New("insert failed")
}

func TestCreateReleasesStockWhenInsertFails(t *testing.T) {
	f := newFixture(t, 10)
	tx := memory.NewTxManager()
	ledger := appinv.NewLedger(tx, f.store.Stock(), nil)
	service := NewService(tx, failingLines{f.store.Lines()}, f.store.Orders(), f.store.Products(), ledger)

	_, err := service.Create(context.Background(), CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  4,
	})
	if err == nil {
		t.Fatal("expected insert failure")
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock = %d, want 10 after compensating release", got)
	}
}

func TestUpdateAdjustsByDelta(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	line, err := f.service.Create(ctx, CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.stock(t); got != 4 {
		t.Fatalf("stock = %d, want 4", got)
	}

	if _, err := f.service.Update(ctx, line.ID, UpdateInput{Quantity: 3}); err != nil {
		t.Fatalf("update up: %v", err)
	}
	if got := f.stock(t); got != 2 {
		t.Fatalf("stock = %d, want 2 after growing line", got)
	}

	if _, err := f.service.Update(ctx, line.ID, UpdateInput{Quantity: 1}); err != nil {
		t.Fatalf("update down: %v", err)
	}
	if got := f.stock(t); got != 4 {
		t.Fatalf("stock = %d, want 4 after shrinking line", got)
	}
}

func TestUpdateRejectsGrowthBeyondStock(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	line, err := f.service.Create(ctx, CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.service.Update(ctx, line.ID, UpdateInput{Quantity: 8})
	if !errors.Is(err, dominv.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if got := f.stock(t); got != 3 {
		t.Fatalf("stock = %d, want 3 unchanged", got)
	}
	got, err := f.service.Get(ctx, line.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quantity != 2 {
		t.Fatalf("line quantity = %d, want 2 unchanged", got.Quantity)
	}
}

func TestUpdateRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	line, err := f.service.Create(ctx, CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.service.Update(ctx, line.ID, UpdateInput{Quantity: 0}); !errors.Is(err, domorder.ErrInvalidLineQuantity) {
		t.Fatalf("err = %v, want ErrInvalidLineQuantity", err)
	}
	if got := f.stock(t); got != 3 {
		t.Fatalf("stock = %d, want 3 unchanged", got)
	}
}

func TestDeleteRestoresFullQuantity(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	line, err := f.service.Create(ctx, CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  6,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.stock(t); got != 4 {
		t.Fatalf("stock = %d, want 4", got)
	}

	if err := f.service.Delete(ctx, line.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock = %d, want 10 after delete", got)
	}
	if _, err := f.service.Get(ctx, line.ID); !errors.Is(err, domorder.ErrLineNotFound) {
		t.Fatalf("err = %v, want ErrLineNotFound", err)
	}
}

func TestDeleteReleasesQuantityFromConcurrentUpdate(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	line, err := f.service.Create(ctx, CreateInput{
		OrderID:   f.orderID,
		ProductID: f.product.ID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := f.stock(t); got != 9 {
		t.Fatalf("stock = %d, want 9", got)
	}

	// Hold the product lock so update and delete queue behind it: both read
	// the line at quantity 1 before blocking, then resolve in turn once the
	// lock frees. The delete must release whatever quantity the line holds
	// when its turn comes, not the quantity it read while queueing.
	tx := memory.NewTxManager()
	held := make(chan struct{})
	release := make(chan struct{})
	holderDone := make(chan struct{})
	go func() {
		defer close(holderDone)
		_ = tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := f.store.Stock().LockForUpdate(ctx, f.product.ID); err != nil {
				t.Errorf("holder lock: %v", err)
				return err
			}
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	updDone := make(chan error, 1)
	delDone := make(chan error, 1)
	go func() {
		_, err := f.service.Update(ctx, line.ID, UpdateInput{Quantity: 3})
		updDone <- err
	}()
	time.Sleep(50 * time.Millisecond)
	go func() { delDone <- f.service.Delete(ctx, line.ID) }()
	time.Sleep(50 * time.Millisecond)
	close(release)
	<-holderDone

	updErr := <-updDone
	delErr := <-delDone
	if delErr != nil {
		t.Fatalf("delete: %v", delErr)
	}
	// If the delete happened to win the lock first, the update finds the
	// line already gone; conservation must hold either way.
	if updErr != nil && !errors.Is(updErr, domorder.ErrLineNotFound) {
		t.Fatalf("update: %v", updErr)
	}
	if got := f.stock(t); got != 10 {
		t.Fatalf("stock = %d, want 10 after update and delete of one line", got)
	}
	if _, err := f.service.Get(ctx, line.ID); !errors.Is(err, domorder.ErrLineNotFound) {
		t.Fatalf("err = %v, want ErrLineNotFound", err)
	}
}

func TestDeleteUnknownLine(t *testing.T) {
	f := newFixture(t, 10)

	if err := f.service.Delete(context.Background(), 9999); !errors.Is(err, domorder.ErrLineNotFound) {
		t.Fatalf("err = %v, want ErrLineNotFound", err)
	}
}
