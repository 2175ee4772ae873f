package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"aguada-backend/pkg/utils"
)

// PanicRecovery keeps a handler panic from killing the server and
// answers with the standard error envelope.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[Recovery] panic on %s %s: %v\n%s", r.Method, r.URL.Path, err, debug.Stack())
				utils.Error(w, http.StatusInternalServerError, "Erro interno do servidor")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
