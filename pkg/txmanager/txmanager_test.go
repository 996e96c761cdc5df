package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/salon-booking/pkg/dbmetrics"
)

func newTestDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = sqlDB.Exec(`CREATE TABLE items (name TEXT NOT NULL)`)
	require.NoError(t, err)

	return dbmetrics.Wrap(sqlDB, nil)
}

func count(t *testing.T, db *dbmetrics.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func insert(ctx context.Context, db *dbmetrics.DB) error {
	_, err := dbmetrics.GetExecutor(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('x')`)
	return err
}

func TestDo_Commit(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db, sql.LevelDefault)

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return insert(ctx, db)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestDo_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db, sql.LevelDefault)
	errBusiness := errors.New("slot taken")

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		if err := insert(ctx, db); err != nil {
			return err
		}
		return errBusiness
	})
	assert.ErrorIs(t, err, errBusiness)
	assert.Equal(t, 0, count(t, db))
}

func TestDo_RollbackOnPanic(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db, sql.LevelDefault)

	assert.Panics(t, func() {
		_ = tm.Do(context.Background(), func(ctx context.Context) error {
			_ = insert(ctx, db)
			panic("boom")
		})
	})
	assert.Equal(t, 0, count(t, db))
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db, sql.LevelDefault)

	err := tm.Do(context.Background(), func(outer context.Context) error {
		outerTx, _ := dbmetrics.TxFromContext(outer)
		return tm.Do(outer, func(inner context.Context) error {
			innerTx, _ := dbmetrics.TxFromContext(inner)
			assert.Same(t, outerTx, innerTx)
			return insert(inner, db)
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db))
}

func TestNoopManager(t *testing.T) {
	called := false
	err := NoopManager{}.Do(context.Background(), func(ctx context.Context) error {
		called = true
		assert.False(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
