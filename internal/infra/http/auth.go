package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TokenAuthMiddleware пропускает запросы с заголовком Authorization: Bearer <token>
// или параметром token. Пустой token отключает проверку.
func TokenAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got == "" {
				got = r.URL.Query().Get("token")
			}
			if got == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "token отсутствует")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized", "токен недействителен")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
