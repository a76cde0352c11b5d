package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/christopherDEPASQUAL/parking-sub000/internal/http/response"
	"github.com/christopherDEPASQUAL/parking-sub000/internal/models"
)

// RequireRole создает middleware, пропускающее запрос только для пользователей
// с одной из перечисленных ролей. Администратор проходит всегда.
func RequireRole(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role == "" {
				log.Error("role missing in request context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			if role == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Error("access denied for role", slog.String("role", role))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		})
	}
}
