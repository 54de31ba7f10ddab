// Package storage defines the persistence ports shared by all aggregates.
package storage

import (
	"context"
	"errors"
)

// ErrConflict reports a uniqueness violation in the record store.
var ErrConflict = errors.New("storage: duplicate key")

// TxManager runs a function inside a storage transaction. The transaction is
// carried in the context passed to fn; repository calls made with that context
// join it. Nested calls reuse the enclosing transaction instead of opening a
// new one, so row locks taken inside fn are held until the outermost commit
// or rollback.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
