package services

import (
	"gorm.io/gorm"

	"github.com/adaptlearn/adaptlearn-backend/internal/platform/dbctx"
)

// runInTx executes fn inside a transaction. It reuses the caller's
// transaction when dbc carries one, opens a new one on db otherwise, and
// runs fn directly when no database is wired at all (unit tests on fakes).
func runInTx(db *gorm.DB, dbc dbctx.Context, fn func(inner dbctx.Context) error) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = db
	}
	if transaction == nil {
		return fn(dbc)
	}
	return transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: txx})
	})
}
