package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/salon-booking/pkg/dbmetrics"
)

// ErrTransaction возвращается при ошибках начала или фиксации транзакции
var ErrTransaction = errors.New("txmanager: transaction error")

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции внутри транзакции, передавая её через контекст
type TransactionManager struct {
	db        TxBeginner
	isolation sql.IsolationLevel
}

// NewTransactionManager создает менеджер транзакций
// isolation задает уровень изоляции для Do (для SQLite используется sql.LevelDefault)
func NewTransactionManager(db TxBeginner, isolation sql.IsolationLevel) *TransactionManager {
	return &TransactionManager{db: db, isolation: isolation}
}

// Do выполняет fn в транзакции. Если транзакция уже есть в контексте, fn выполняется в ней
// Ошибка fn возвращается без изменений, чтобы вызывающий код мог сравнить её через errors.Is
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: m.isolation})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}

	return nil
}

// NoopManager выполняет fn без транзакции
// Используется с in-memory хранилищем, где атомарность обеспечивает само хранилище
type NoopManager struct{}

func (NoopManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
