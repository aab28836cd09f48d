package middleware

import (
	"net/http"

	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

// Recover converts handler panics into a 500 response instead of
// tearing down the connection.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					utils.ResponseJSON(w, http.StatusInternalServerError, false, "internal server error", nil, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
