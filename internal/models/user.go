// Package models содержит доменные модели магазина сладостей:
// пользователей, товары и задания на отправку писем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	Username           string     // Имя пользователя (уникальное)
	Email              string     // Электронная почта (уникальная, в нижнем регистре)
	PasswordHash       string     // Хэш пароля пользователя
	IsVerified         bool       // Подтверждена ли почта
	VerifyOtp          string     // Одноразовый код подтверждения почты
	VerifyOtpExpiresAt *time.Time // Срок действия кода подтверждения
	ResetOtp           string     // Одноразовый код сброса пароля
	ResetOtpExpiresAt  *time.Time // Срок действия кода сброса
	Role               string     // Роль пользователя, admin или user
	LastLoginAt        *time.Time // Время последнего входа
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SanitizedUser — проекция пользователя без секретных полей.
// Только она уходит наружу в HTTP-ответах.
type SanitizedUser struct {
	UID        string    `json:"uid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sanitize возвращает проекцию пользователя для передачи клиенту.
func (u *User) Sanitize() SanitizedUser {
	return SanitizedUser{
		UID:        u.UID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}
