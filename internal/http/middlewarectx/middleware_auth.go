// Package middlewarectx содержит HTTP middleware: проверку сессионного токена,
// проверку роли администратора и ограничение частоты запросов.
//
// JWTMiddleware принимает токен из cookie или заголовка Authorization,
// проверяет подпись и срок действия, загружает пользователя из хранилища
// и кладет его в контекст запроса. Порядок всегда один: сначала
// аутентификация, затем (если нужно) проверка роли.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweetshop-api/internal/http/cookies"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/response"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/jwt"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/sl"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для идентификатора пользователя в контексте
	UserUID Key = "user_uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// CtxUser — ключ для загруженного пользователя в контексте
	CtxUser Key = "user"
)

// UserProvider загружает пользователя по идентификатору из токена.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ExtractToken достает токен из запроса: сначала cookie, затем
// заголовок Authorization с префиксом Bearer. Cookie имеет приоритет.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(cookies.TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// JWTMiddleware возвращает HTTP middleware, проверяющий сессионный токен.
//
// Если токен валиден и его владелец существует, идентификатор, роль
// и сам пользователь добавляются в контекст запроса, иначе возвращается
// HTTP 401 Unauthorized.
func JWTMiddleware(maker jwt.Maker, users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := ExtractToken(r)
			if tokenStr == "" {
				log.Error("missing session token")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized, login again"))
				return
			}

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserUID)
			if err != nil {
				// Токен подписан для пользователя, которого больше нет.
				log.Error("token owner not found", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UID)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, CtxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
