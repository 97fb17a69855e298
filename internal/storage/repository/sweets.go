package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

const sweetColumns = `uid, name, category, price, quantity, description, image_url,
			      is_featured, rating, is_available, created_by, last_restocked_at,
			      created_at, updated_at`

func scanSweet(row interface{ Scan(...any) error }) (*models.Sweet, error) {
	sw := &models.Sweet{}
	var createdBy sql.NullString
	var lastRestocked sql.NullTime
	if err := row.Scan(&sw.UID, &sw.Name, &sw.Category, &sw.Price, &sw.Quantity,
		&sw.Description, &sw.ImageURL, &sw.IsFeatured, &sw.Rating, &sw.IsAvailable,
		&createdBy, &lastRestocked, &sw.CreatedAt, &sw.UpdatedAt); err != nil {
		return nil, err
	}
	if createdBy.Valid {
		sw.CreatedBy = &createdBy.String
	}
	if lastRestocked.Valid {
		sw.LastRestockedAt = &lastRestocked.Time
	}
	return sw, nil
}

// CreateSweet сохраняет новый товар и возвращает его UID.
func (s *Storage) CreateSweet(ctx context.Context, sweet models.Sweet) (string, error) {
	const op = "storage.CreateSweet"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO sweets (name, category, price, quantity, description, image_url,
			      is_featured, rating, is_available, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		sweet.Name, sweet.Category, sweet.Price, sweet.Quantity, sweet.Description,
		sweet.ImageURL, sweet.IsFeatured, sweet.Rating, sweet.IsAvailable,
		sweet.CreatedBy).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetSweet возвращает товар по его UID.
func (s *Storage) GetSweet(ctx context.Context, sweetUID string) (*models.Sweet, error) {
	const op = "storage.GetSweet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sweetColumns + `
			  FROM sweets
			  WHERE uid = $1`
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query, sweetUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sw, nil
}

// ListSweets возвращает все товары, новые первыми.
func (s *Storage) ListSweets(ctx context.Context) ([]*models.Sweet, error) {
	const op = "storage.ListSweets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + sweetColumns + `
			  FROM sweets
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Sweet
	for rows.Next() {
		sw, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sw)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchSweets возвращает товары, подходящие под фильтр. Все условия
// опциональны и объединяются через AND; подстроки ищутся без учета регистра.
func (s *Storage) SearchSweets(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error) {
	const op = "storage.SearchSweets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conditions []string
	var args []any
	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		conditions = append(conditions, "name ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, "%"+filter.Category+"%")
		conditions = append(conditions, "category ILIKE $"+strconv.Itoa(len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conditions = append(conditions, "price >= $"+strconv.Itoa(len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conditions = append(conditions, "price <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + sweetColumns + ` FROM sweets`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Sweet
	for rows.Next() {
		sw, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sw)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSweet частично обновляет товар: nil-поля остаются прежними.
// Возвращает обновленную запись.
func (s *Storage) UpdateSweet(ctx context.Context, sweetUID string, upd models.SweetUpdate) (*models.Sweet, error) {
	const op = "storage.UpdateSweet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE sweets
			  SET name = COALESCE($1, name),
			      category = COALESCE($2, category),
			      price = COALESCE($3, price),
			      quantity = COALESCE($4, quantity),
			      description = COALESCE($5, description),
			      image_url = COALESCE($6, image_url),
			      is_featured = COALESCE($7, is_featured),
			      rating = COALESCE($8, rating),
			      is_available = COALESCE($9, is_available),
			      updated_at = now()
			  WHERE uid = $10
			  RETURNING ` + sweetColumns
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query,
		upd.Name, upd.Category, upd.Price, upd.Quantity, upd.Description,
		upd.ImageURL, upd.IsFeatured, upd.Rating, upd.IsAvailable, sweetUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sw, nil
}

// DeleteSweet удаляет товар по UID.
func (s *Storage) DeleteSweet(ctx context.Context, sweetUID string) error {
	const op = "storage.DeleteSweet"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM sweets WHERE uid = $1`, sweetUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// PurchaseSweet атомарно списывает одну единицу товара и возвращает остаток.
// Условное обновление закрывает гонку "lost update" между параллельными
// покупками: декремент происходит только при quantity > 0.
func (s *Storage) PurchaseSweet(ctx context.Context, sweetUID string) (int, error) {
	const op = "storage.PurchaseSweet"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var remaining int
	query := `UPDATE sweets
			  SET quantity = quantity - 1, updated_at = now()
			  WHERE uid = $1 AND quantity > 0
			  RETURNING quantity`
	err := s.DB.QueryRowContext(ctx, query, sweetUID).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Либо товара нет, либо он кончился.
	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sweets WHERE uid = $1)`, sweetUID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return 0, fmt.Errorf("%s: %w", op, ErrOutOfStock)
}

// RestockSweet атомарно увеличивает количество товара на amount
// и отмечает время пополнения. Возвращает новое количество.
func (s *Storage) RestockSweet(ctx context.Context, sweetUID string, amount int) (int, error) {
	const op = "storage.RestockSweet"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var total int
	query := `UPDATE sweets
			  SET quantity = quantity + $1, last_restocked_at = now(), updated_at = now()
			  WHERE uid = $2
			  RETURNING quantity`
	if err := s.DB.QueryRowContext(ctx, query, amount, sweetUID).Scan(&total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
