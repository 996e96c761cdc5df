package booking

import (
	"context"
	"fmt"

	"github.com/m04kA/salon-booking/pkg/psqlbuilder"
)

// Частичный уникальный индекс - последний рубеж против двойного бронирования:
// на пару (дата, слот) допускается не более одной неотмененной записи
var schema = map[psqlbuilder.Dialect][]string{
	psqlbuilder.DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGSERIAL PRIMARY KEY,
			booking_date DATE NOT NULL,
			slot_label VARCHAR(5) NOT NULL,
			customer_name VARCHAR(100) NOT NULL,
			phone VARCHAR(20) NOT NULL,
			services TEXT NOT NULL DEFAULT '[]',
			price NUMERIC(10, 2) NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL,
			status VARCHAR(20) NOT NULL,
			note TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active_slot
			ON bookings (booking_date, slot_label) WHERE status <> 'cancelled'`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (booking_date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status)`,
	},
	psqlbuilder.DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			booking_date TEXT NOT NULL,
			slot_label TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			services TEXT NOT NULL DEFAULT '[]',
			price REAL NOT NULL DEFAULT 0,
			duration_minutes INTEGER NOT NULL,
			status TEXT NOT NULL,
			note TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_active_slot
			ON bookings (booking_date, slot_label) WHERE status <> 'cancelled'`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (booking_date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status)`,
	},
}

// Migrate создает таблицу бронирований и индексы, если их еще нет
func (r *Repository) Migrate(ctx context.Context) error {
	for _, stmt := range schema[r.dialect] {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: Migrate - %v", ErrMigrate, err)
		}
	}
	return nil
}
