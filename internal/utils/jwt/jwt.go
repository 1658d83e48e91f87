package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/swimschool/billing/internal/domain"
)

// Issuer издатель токенов сотрудников
const Issuer = "swimschool-billing"

// ErrInvalidToken возвращается для поддельных, просроченных и поврежденных токенов
var ErrInvalidToken = errors.New("invalid token")

// Claims представляет JWT claims сессии сотрудника
type Claims struct {
	UserID       int64            `json:"user_id"`
	Role         domain.StaffRole `json:"role"`
	ReportAccess bool             `json:"report_access"`
	jwt.RegisteredClaims
}

// Manager управляет генерацией и валидацией JWT токенов
type Manager struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewManager создает новый JWT manager
func NewManager(secretKey string, tokenTTL time.Duration) *Manager {
	return &Manager{
		secretKey: []byte(secretKey),
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// Generate выпускает токен, в котором закодирована сессия сотрудника
func (m *Manager) Generate(session domain.Session) (string, error) {
	now := m.now()
	claims := Claims{
		UserID:       session.UserID,
		Role:         session.Role,
		ReportAccess: session.ReportAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Validate проверяет токен и восстанавливает из него сессию
func (m *Manager) Validate(tokenString string) (domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	}, jwt.WithIssuer(Issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Session{}, ErrInvalidToken
	}

	return domain.Session{
		UserID:       claims.UserID,
		Role:         claims.Role,
		ReportAccess: claims.ReportAccess,
	}, nil
}
