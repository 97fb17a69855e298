// Package sweetshop предоставляет маршруты для основного приложения.
package sweetshop

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/sweetshop-api/internal/config"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/sendresetotp"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/sendverifyotp"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/auth/verifyaccount"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/create"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/list"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/purchase"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/remove"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/restock"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/search"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/handlers/sweets/update"
	"github.com/magabrotheeeer/sweetshop-api/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/sweetshop-api/internal/services/auth"
	sweetservice "github.com/magabrotheeeer/sweetshop-api/internal/services/sweets"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	jwtMaker jwt.Maker, authService *authservice.AuthService, sweetService *sweetservice.SweetService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	isProd := cfg.IsProd()
	limiter := rate.NewLimiter(rate.Every(time.Second), 100)
	withSession := middlewarectx.JWTMiddleware(jwtMaker, authService, logger)
	adminOnly := middlewarectx.AdminMiddleware(logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limiter))

		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService, isProd).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService, isProd).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger, isProd).ServeHTTP)
		r.Post("/auth/send-reset-otp", sendresetotp.New(logger, authService).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, authService).ServeHTTP)
		r.Get("/sweets", list.New(logger, sweetService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(withSession)
			r.Get("/auth/me", me.New(logger).ServeHTTP)
			r.Post("/auth/send-verify-otp", sendverifyotp.New(logger, authService).ServeHTTP)
			r.Post("/auth/verify-account", verifyaccount.New(logger, authService).ServeHTTP)
			r.Get("/sweets/search", search.New(logger, sweetService).ServeHTTP)
			r.Post("/sweets/{id}/purchase", purchase.New(logger, sweetService).ServeHTTP)

			// Операции администратора
			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/sweets", create.New(logger, sweetService).ServeHTTP)
				r.Put("/sweets/{id}", update.New(logger, sweetService).ServeHTTP)
				r.Delete("/sweets/{id}", remove.New(logger, sweetService).ServeHTTP)
				r.Post("/sweets/{id}/restock", restock.New(logger, sweetService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
