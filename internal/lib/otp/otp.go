// Package otp генерирует одноразовые коды для подтверждения почты
// и сброса пароля.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate возвращает случайный 6-значный числовой код.
// Используется криптографический источник случайности.
func Generate() (string, error) {
	const op = "otp.Generate"
	// 100000..999999, ведущих нулей не бывает
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
