package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect SQL-диалект хранилища
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect проверяет название диалекта (совпадает с именем драйвера database/sql)
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectPostgres, DialectSQLite:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("psqlbuilder: unsupported dialect %q", s)
	}
}

// Builder возвращает построитель запросов с плейсхолдерами диалекта
func Builder(d Dialect) squirrel.StatementBuilderType {
	if d == DialectSQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// SupportsRowLocks возвращает true, если диалект поддерживает SELECT ... FOR UPDATE
// SQLite блокирует базу целиком на запись, построчных блокировок в нем нет
func (d Dialect) SupportsRowLocks() bool {
	return d == DialectPostgres
}

// Select построитель SELECT для Postgres
func Select(columns ...string) squirrel.SelectBuilder {
	return Builder(DialectPostgres).Select(columns...)
}

// Insert построитель INSERT для Postgres
func Insert(table string) squirrel.InsertBuilder {
	return Builder(DialectPostgres).Insert(table)
}

// Update построитель UPDATE для Postgres
func Update(table string) squirrel.UpdateBuilder {
	return Builder(DialectPostgres).Update(table)
}

// Delete построитель DELETE для Postgres
func Delete(table string) squirrel.DeleteBuilder {
	return Builder(DialectPostgres).Delete(table)
}
