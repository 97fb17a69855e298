package register

import (
	"context"

	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, username, email, password string) (string, models.SanitizedUser, error)
}
