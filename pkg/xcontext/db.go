package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type txRoot struct {
	tx   *gorm.DB
	done bool
}

// txScope is the transaction attached to a context. Nested scopes share the
// root transaction and never commit or rollback it.
type txScope struct {
	root   *txRoot
	nested bool
	done   bool
}

// DB returns the running transaction of ctx if any, otherwise the database
// connection set by WithDB.
func DB(ctx context.Context) *gorm.DB {
	if scope, ok := ctx.Value(dbTxKey{}).(*txScope); ok && !scope.root.done {
		return scope.root.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("xcontext: database is not set")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction and attaches it to the returned
// context. If ctx is already in a transaction, the returned context joins it.
func WithDBTransaction(ctx context.Context) context.Context {
	if scope, ok := ctx.Value(dbTxKey{}).(*txScope); ok && !scope.root.done {
		return context.WithValue(ctx, dbTxKey{}, &txScope{root: scope.root, nested: true})
	}

	root := &txRoot{tx: DB(ctx).Begin()}
	return context.WithValue(ctx, dbTxKey{}, &txScope{root: root})
}

// WithCommitDBTransaction commits the transaction started by the same scope.
// Committing a nested scope only closes that scope.
func WithCommitDBTransaction(ctx context.Context) error {
	scope, ok := ctx.Value(dbTxKey{}).(*txScope)
	if !ok || scope.done {
		return nil
	}

	scope.done = true
	if scope.nested || scope.root.done {
		return nil
	}

	scope.root.done = true
	return scope.root.tx.Commit().Error
}

// WithRollbackDBTransaction rollbacks the transaction if it has not been
// committed yet. It is safe to defer right after WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	scope, ok := ctx.Value(dbTxKey{}).(*txScope)
	if !ok || scope.done {
		return
	}

	scope.done = true
	if scope.nested || scope.root.done {
		return
	}

	scope.root.done = true
	scope.root.tx.Rollback()
}
