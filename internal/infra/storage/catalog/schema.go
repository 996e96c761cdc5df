package catalog

import (
	"context"
	"fmt"

	"github.com/m04kA/salon-booking/pkg/psqlbuilder"
)

var schema = map[psqlbuilder.Dialect][]string{
	psqlbuilder.DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS slot_closures (
			id BIGSERIAL PRIMARY KEY,
			closure_date DATE NOT NULL,
			slot_label VARCHAR(5) NOT NULL DEFAULT '',
			reason VARCHAR(200),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (closure_date, slot_label)
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			price NUMERIC(10, 2) NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	psqlbuilder.DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS slot_closures (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			closure_date TEXT NOT NULL,
			slot_label TEXT NOT NULL DEFAULT '',
			reason TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (closure_date, slot_label)
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			price REAL NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}

// Migrate создает таблицы закрытий и услуг, если их еще нет
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema[r.dialect] {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: Migrate - %v", ErrMigrate, err)
		}
	}
	return nil
}
