// Package repository реализует хранилище данных на основе PostgreSQL
// для пользователей и товаров магазина сладостей.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки хранилища, проверяются через errors.Is на уровне сервисов.
var (
	// ErrNotFound — запись с таким идентификатором отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrUniqueViolation — нарушение уникальности (email или username заняты).
	ErrUniqueViolation = errors.New("unique constraint violation")
	// ErrOutOfStock — количество товара равно нулю, покупка невозможна.
	ErrOutOfStock = errors.New("out of stock")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает соединение с базой.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// isUniqueViolation распознает нарушение уникального индекса Postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
