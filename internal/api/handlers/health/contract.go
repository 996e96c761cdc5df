package health

import "context"

// Check проверка одной зависимости
type Check func(ctx context.Context) error

type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
