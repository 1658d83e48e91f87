package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost стоимость хеширования по умолчанию
const DefaultCost = bcrypt.DefaultCost

// maxLength ограничение bcrypt на длину пароля в байтах
const maxLength = 72

// Ошибки проверки паролей
var (
	ErrEmpty    = errors.New("password cannot be empty")
	ErrTooLong  = errors.New("password is longer than 72 bytes")
	ErrMismatch = errors.New("password does not match")
)

// Hasher интерфейс для хеширования паролей сотрудников
type Hasher interface {
	Hash(password string) (string, error)
	Check(hash, password string) error
}

// BCryptHasher реализация хеширования через bcrypt
type BCryptHasher struct {
	cost int
}

// NewBCryptHasher создает новый hasher; недопустимая стоимость заменяется на DefaultCost
func NewBCryptHasher(cost int) *BCryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BCryptHasher{cost: cost}
}

// Hash хеширует пароль
func (h *BCryptHasher) Hash(password string) (string, error) {
	switch {
	case password == "":
		return "", ErrEmpty
	case len(password) > maxLength:
		return "", ErrTooLong
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// Check проверяет соответствие пароля хешу; при несовпадении возвращает ErrMismatch
func (h *BCryptHasher) Check(hash, password string) error {
	if hash == "" || password == "" {
		return ErrEmpty
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("failed to check password: %w", err)
	}

	return nil
}
