// Команда seed наполняет пустой каталог стартовыми товарами и выдает
// роль администратора адресам из admin_emails. Повторный запуск безопасен:
// непустой каталог не трогается, уже выданные роли не меняются.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/sweetshop-api/internal/config"
	"github.com/magabrotheeeer/sweetshop-api/internal/migrations"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	"github.com/magabrotheeeer/sweetshop-api/internal/storage/repository"
)

var seedSweets = []models.Sweet{
	{Name: "Dark Chocolate Truffle", Category: "chocolate", Price: 4.99, Quantity: 40,
		Description: "Rich dark chocolate truffles with a soft ganache center", Rating: 4.8, IsFeatured: true},
	{Name: "Rainbow Gummy Bears", Category: "gummy", Price: 2.49, Quantity: 100,
		Description: "Classic fruit-flavored gummy bears", Rating: 4.5},
	{Name: "Strawberry Lollipop", Category: "lollipop", Price: 0.99, Quantity: 200,
		Description: "Handmade strawberry swirl lollipop", Rating: 4.2},
	{Name: "Sour Apple Belts", Category: "sour", Price: 3.29, Quantity: 60,
		Description: "Tangy green apple sour belts", Rating: 4.6},
	{Name: "Peppermint Drops", Category: "mint", Price: 1.99, Quantity: 80,
		Description: "Refreshing hard peppermint drops", Rating: 4.0},
	{Name: "Butterscotch Discs", Category: "hard candy", Price: 2.19, Quantity: 90,
		Description: "Old-fashioned butterscotch hard candy", Rating: 4.3},
}

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", slog.Any("err", err))
		os.Exit(1)
	}

	if err := seedCatalog(ctx, db, logger); err != nil {
		logger.Error("failed to seed catalog", slog.Any("err", err))
		os.Exit(1)
	}

	promoteAdmins(ctx, db, cfg.AdminEmails, logger)

	logger.Info("seed completed")
}

func seedCatalog(ctx context.Context, db *repository.Storage, logger *slog.Logger) error {
	existing, err := db.ListSweets(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("catalog is not empty, skipping sweets seed", slog.Int("count", len(existing)))
		return nil
	}

	for _, sweet := range seedSweets {
		sweet.ImageURL = models.DefaultImageURL
		sweet.IsAvailable = true
		uid, err := db.CreateSweet(ctx, sweet)
		if err != nil {
			return err
		}
		logger.Info("seeded sweet", slog.String("uid", uid), slog.String("name", sweet.Name))
	}
	return nil
}

func promoteAdmins(ctx context.Context, db *repository.Storage, emails []string, logger *slog.Logger) {
	for _, email := range emails {
		if err := db.PromoteToAdmin(ctx, email); err != nil {
			// Адрес из allowlist мог еще не зарегистрироваться.
			if errors.Is(err, repository.ErrNotFound) {
				logger.Warn("admin email is not registered yet", slog.String("email", email))
				continue
			}
			logger.Error("failed to promote admin", slog.String("email", email), slog.Any("err", err))
			continue
		}
		logger.Info("promoted to admin", slog.String("email", email))
	}
}
