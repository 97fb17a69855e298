// Package sweetshop собирает HTTP-приложение магазина: хранилище, кеш,
// очередь писем, бизнес-сервисы и маршруты.
package sweetshop

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/sweetshop-api/internal/cache"
	"github.com/magabrotheeeer/sweetshop-api/internal/config"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/jwt"
	"github.com/magabrotheeeer/sweetshop-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/sweetshop-api/internal/migrations"
	authservice "github.com/magabrotheeeer/sweetshop-api/internal/services/auth"
	sweetservice "github.com/magabrotheeeer/sweetshop-api/internal/services/sweets"
	"github.com/magabrotheeeer/sweetshop-api/internal/storage/repository"
)

// App — собранное HTTP-приложение магазина.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	mqConn *amqp.Connection
	mqCh   *amqp.Channel
}

// New инициализирует зависимости и собирает приложение.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	mqCh, err := rabbitmq.SetupChannel(mqConn, rabbitmq.GetMailQueues())
	if err != nil {
		mqConn.Close()
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	publisher := rabbitmq.NewChannelPublisher(mqCh)

	authService := authservice.NewAuthService(db, jwtMaker, publisher, cfg.AdminEmails, logger)
	sweetService := sweetservice.NewSweetService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, jwtMaker, authService, sweetService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
		mqConn: mqConn,
		mqCh:   mqCh,
	}, nil
}

// Run запускает HTTP-сервер и мягко останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.mqCh.Close(); err != nil {
		a.logger.Error("failed to close rabbitmq channel", slog.Any("err", err))
	}
	if err := a.mqConn.Close(); err != nil {
		a.logger.Error("failed to close rabbitmq connection", slog.Any("err", err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis client", slog.Any("err", err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}
}
