// Package services содержит бизнес-логику для управления товарами и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/sweetshop-api/internal/models"
	"github.com/magabrotheeeer/sweetshop-api/internal/storage/repository"
)

// Границы валидации товара.
const (
	MaxPrice          = 10000.0
	MaxNameLen        = 100
	MinNameLen        = 2
	MaxDescriptionLen = 500
)

const listCacheKey = "sweets:all"
const listCacheTTL = time.Minute

// Ошибки бизнес-уровня, проверяются обработчиками через errors.Is.
var (
	// ErrNotFound — товар с таким идентификатором отсутствует.
	ErrNotFound = errors.New("sweet not found")
	// ErrOutOfStock — товар закончился, покупка невозможна.
	ErrOutOfStock = errors.New("sweet is out of stock")
	// ErrValidation — поля товара вне допустимых границ.
	ErrValidation = errors.New("invalid sweet fields")
)

// SweetRepository определяет методы для работы с товарами в хранилище.
type SweetRepository interface {
	CreateSweet(ctx context.Context, sweet models.Sweet) (string, error)
	GetSweet(ctx context.Context, sweetUID string) (*models.Sweet, error)
	ListSweets(ctx context.Context) ([]*models.Sweet, error)
	SearchSweets(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error)
	UpdateSweet(ctx context.Context, sweetUID string, upd models.SweetUpdate) (*models.Sweet, error)
	DeleteSweet(ctx context.Context, sweetUID string) error
	PurchaseSweet(ctx context.Context, sweetUID string) (int, error)
	RestockSweet(ctx context.Context, sweetUID string, amount int) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// SweetService реализует бизнес-логику работы с товарами, включая кеширование.
type SweetService struct {
	repo  SweetRepository
	cache Cache
	log   *slog.Logger
}

// NewSweetService создает новый экземпляр SweetService.
func NewSweetService(repo SweetRepository, cache Cache, log *slog.Logger) *SweetService {
	return &SweetService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// roundPrice округляет цену до копеек.
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

func validateBounds(name, category, description *string, price *float64, quantity *int, rating *float64) error {
	if name != nil && (len(*name) < MinNameLen || len(*name) > MaxNameLen) {
		return fmt.Errorf("%w: name length must be between %d and %d", ErrValidation, MinNameLen, MaxNameLen)
	}
	if category != nil && !models.IsValidCategory(*category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, *category)
	}
	if description != nil && len(*description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description cannot exceed %d characters", ErrValidation, MaxDescriptionLen)
	}
	if price != nil && (*price < 0 || *price > MaxPrice) {
		return fmt.Errorf("%w: price must be between 0 and %.0f", ErrValidation, MaxPrice)
	}
	if quantity != nil && *quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
	}
	return nil
}

// List возвращает все товары, новые первыми. Результат кешируется на минуту.
func (s *SweetService) List(ctx context.Context) ([]*models.Sweet, error) {
	var cached []*models.Sweet
	found, err := s.cache.Get(listCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read sweets cache", slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	sweets, err := s.repo.ListSweets(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(listCacheKey, sweets, listCacheTTL); err != nil {
		s.log.Warn("failed to cache sweets list", slog.Any("err", err))
	}
	return sweets, nil
}

// Search возвращает товары по фильтру. Фильтры комбинируются через AND.
func (s *SweetService) Search(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error) {
	return s.repo.SearchSweets(ctx, filter)
}

// Create валидирует границы полей, проставляет значения по умолчанию
// и сохраняет новый товар. Цена округляется до копеек.
func (s *SweetService) Create(ctx context.Context, sweet models.Sweet, createdBy string) (*models.Sweet, error) {
	if err := validateBounds(&sweet.Name, &sweet.Category, &sweet.Description,
		&sweet.Price, &sweet.Quantity, &sweet.Rating); err != nil {
		return nil, err
	}

	sweet.Price = roundPrice(sweet.Price)
	if sweet.ImageURL == "" {
		sweet.ImageURL = models.DefaultImageURL
	}
	sweet.IsAvailable = true
	sweet.CreatedBy = &createdBy

	uid, err := s.repo.CreateSweet(ctx, sweet)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new sweet", slog.String("uid", uid))
	s.invalidateList()

	return s.repo.GetSweet(ctx, uid)
}

// Update частично обновляет товар, проверяя переданные поля
// по тем же границам, что и при создании.
func (s *SweetService) Update(ctx context.Context, sweetUID string, upd models.SweetUpdate) (*models.Sweet, error) {
	if err := validateBounds(upd.Name, upd.Category, upd.Description,
		upd.Price, upd.Quantity, upd.Rating); err != nil {
		return nil, err
	}
	if upd.Price != nil {
		rounded := roundPrice(*upd.Price)
		upd.Price = &rounded
	}

	sweet, err := s.repo.UpdateSweet(ctx, sweetUID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.invalidateList()
	return sweet, nil
}

// Delete удаляет товар.
func (s *SweetService) Delete(ctx context.Context, sweetUID string) error {
	if err := s.repo.DeleteSweet(ctx, sweetUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateList()
	return nil
}

// Purchase списывает одну единицу товара и возвращает остаток.
// Декремент выполняется хранилищем атомарно.
func (s *SweetService) Purchase(ctx context.Context, sweetUID string) (int, error) {
	remaining, err := s.repo.PurchaseSweet(ctx, sweetUID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return 0, ErrNotFound
		case errors.Is(err, repository.ErrOutOfStock):
			return 0, ErrOutOfStock
		}
		return 0, err
	}
	s.invalidateList()
	return remaining, nil
}

// Restock увеличивает количество товара на amount и возвращает новый остаток.
func (s *SweetService) Restock(ctx context.Context, sweetUID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: restock amount must be positive", ErrValidation)
	}

	total, err := s.repo.RestockSweet(ctx, sweetUID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	s.invalidateList()
	return total, nil
}

func (s *SweetService) invalidateList() {
	if err := s.cache.Invalidate(listCacheKey); err != nil {
		s.log.Warn("failed to invalidate sweets cache", slog.Any("err", err))
	}
}
