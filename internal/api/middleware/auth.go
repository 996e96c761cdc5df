package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/salon-booking/internal/api/handlers"
)

// AdminSecretHeader заголовок с общим секретом администратора
const AdminSecretHeader = "X-Admin-Secret"

const msgUnauthorized = "требуется секрет администратора"

// AdminAuth пропускает запрос только с правильным X-Admin-Secret
// Пустой secret закрывает админские маршруты полностью
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(AdminSecretHeader)
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
