package gormstore

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Zhima-Mochi/storefront/app/internal/domain/inventory"
	"github.com/Zhima-Mochi/storefront/app/internal/domain/storage"
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// translate maps driver errors onto the domain taxonomy. notFound is the
// entity's own sentinel so callers get catalog.ErrNotFound, order.ErrNotFound
// and so on rather than gorm internals.
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return storage.ErrConflict
		case mysqlLockWaitTimeout, mysqlDeadlock:
			return inventory.ErrLockTimeout
		}
	}
	return err
}
