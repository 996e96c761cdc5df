package availability

import "errors"

var (
	// ErrCacheUnavailable возвращается при ошибке обращения к Redis
	ErrCacheUnavailable = errors.New("availability.cache: cache unavailable")

	// ErrDecode возвращается, если запись в кэше повреждена
	ErrDecode = errors.New("availability.cache: failed to decode entry")
)
