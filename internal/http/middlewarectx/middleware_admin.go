package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// AdminMiddleware возвращает HTTP middleware, пропускающий запрос дальше
// только для пользователей с ролью администратора.
//
// Ставится после JWTMiddleware: отсутствие роли в контексте означает,
// что запрос не прошел аутентификацию, и возвращается HTTP 401.
// Аутентифицированный не-администратор получает HTTP 403.
func AdminMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AdminMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			role, ok := r.Context().Value(Role).(string)
			if !ok {
				log.Error("missing role in request context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized, login again"))
				return
			}
			if role != models.RoleAdmin {
				log.Warn("forbidden, admin role required",
					slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
