package memory

import "context"

type txKey struct{}

// memTx tracks the row locks taken during one logical transaction so they are
// held until the outermost WithinTx returns. Writes are applied in place;
// repositories mutate state only after all validations have passed.
type memTx struct {
	unlocks []func()
}

func (t *memTx) add(unlock func()) {
	t.unlocks = append(t.unlocks, unlock)
}

func (t *memTx) release() {
	for i := len(t.unlocks) - 1; i >= 0; i-- {
		t.unlocks[i]()
	}
	t.unlocks = nil
}

// TxManager implements storage.TxManager for the in-memory store.
type TxManager struct{}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFrom(ctx) != nil {
		return fn(ctx)
	}
	t := &memTx{}
	defer t.release()
	return fn(context.WithValue(ctx, txKey{}, t))
}

func txFrom(ctx context.Context) *memTx {
	if ctx == nil {
		return nil
	}
	t, _ := ctx.Value(txKey{}).(*memTx)
	return t
}
