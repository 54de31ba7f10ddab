package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domcat "github.com/Zhima-Mochi/storefront/app/internal/domain/catalog"
	domclient "github.com/Zhima-Mochi/storefront/app/internal/domain/client"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
)

func seedProduct(t *testing.T, s *Store, stock int) uint64 {
	t.Helper()
	p, err := domcat.NewProduct("widget", 9.99, stock, "", 1)
	if err != nil {
		t.Fatalf("new product: %v", err)
	}
	if err := s.Products().Insert(context.Background(), p); err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return p.ID
}

func TestLockForUpdateRequiresTransaction(t *testing.T) {
	s := NewStore(time.Second)
	id := seedProduct(t, s, 3)

	_, err := s.Stock().LockForUpdate(context.Background(), id)
	if err == nil {
		t.Fatal("expected error outside a transaction")
	}
}

func TestLockForUpdateTimesOutWhenRowHeld(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	tx := NewTxManager()
	id := seedProduct(t, s, 3)

	holderReady := make(chan struct{})
	holderDone := make(chan struct{})
	go func() {
		defer close(holderDone)
		_ = tx.WithinTx(context.Background(), func(ctx context.Context) error {
			if _, err := s.Stock().LockForUpdate(ctx, id); err != nil {
				t.Errorf("holder lock: %v", err)
				return err
			}
			close(holderReady)
			time.Sleep(200 * time.Millisecond)
			return nil
		})
	}()
	<-holderReady

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := s.Stock().LockForUpdate(ctx, id)
		return err
	})
	if !errors.Is(err, inventory.ErrLockTimeout) {
		t.Fatalf("err = %v, want ErrLockTimeout", err)
	}
	<-holderDone
}

func TestLockReleasedAtOutermostTxEnd(t *testing.T) {
	s := NewStore(50 * time.Millisecond)
	tx := NewTxManager()
	id := seedProduct(t, s, 3)

	other := seedProduct(t, s, 1)
	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		if _, err := s.Stock().LockForUpdate(ctx, id); err != nil {
			return err
		}
		// A nested WithinTx joins the same transaction; its lock is
		// registered on the outer one.
		return tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.Stock().LockForUpdate(ctx, other)
			return err
		})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	// After the outer tx ends the row is free again.
	err = tx.WithinTx(context.Background(), func(ctx context.Context) error {
		_, err := s.Stock().LockForUpdate(ctx, id)
		return err
	})
	if err != nil {
		t.Fatalf("relock after release: %v", err)
	}
}

func TestStockSaveWritesThrough(t *testing.T) {
	s := NewStore(time.Second)
	tx := NewTxManager()
	id := seedProduct(t, s, 10)

	err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
		rec, err := s.Stock().LockForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := rec.Deduct(4); err != nil {
			return err
		}
		return s.Stock().Save(ctx, rec)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	p, err := s.Products().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Stock != 6 {
		t.Fatalf("stock = %d, want 6", p.Stock)
	}
}

func TestCategoryNameUnique(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()

	first, _ := domcat.NewCategory("drinks")
	if err := s.Categories().Insert(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup, _ := domcat.NewCategory("drinks")
	if err := s.Categories().Insert(ctx, dup); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestClientEmailUnique(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()

	first, err := domclient.New("Ada", "Lovelace", "ada@example.com", "555-0100")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := s.Clients().Insert(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup, _ := domclient.New("Other", "Person", "ada@example.com", "555-0101")
	if err := s.Clients().Insert(ctx, dup); !errors.Is(err, storage.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}

func TestListPagination(t *testing.T) {
	s := NewStore(time.Second)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		seedProduct(t, s, i)
	}

	page, err := s.Products().List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len = %d, want 2", len(page))
	}
	if page[0].ID >= page[1].ID {
		t.Fatalf("page not sorted by id: %d, %d", page[0].ID, page[1].ID)
	}

	tail, err := s.Products().List(ctx, 10, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tail) != 0 {
		t.Fatalf("len = %d, want 0", len(tail))
	}
}
