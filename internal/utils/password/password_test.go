package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testCost используется в тестах для ускорения выполнения
const testCost = bcrypt.MinCost

func TestBCryptHasher_Hash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "Valid password", password: "password123"},
		{name: "Hebrew password", password: "סיסמה-בריכה"},
		{name: "Password with special characters", password: "p@ssw0rd!#$%"},
		{name: "Empty password", password: "", wantErr: ErrEmpty},
		{name: "Too long password", password: strings.Repeat("a", 73), wantErr: ErrTooLong},
	}

	hasher := NewBCryptHasher(testCost)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			// Проверяем, что хеш валидный bcrypt
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.password)))
		})
	}
}

func TestBCryptHasher_Check(t *testing.T) {
	hasher := NewBCryptHasher(testCost)
	password := "mypassword123"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
		anyErr   bool
	}{
		{name: "Correct password", hash: hash, password: password},
		{name: "Wrong password", hash: hash, password: "wrongpassword", wantErr: ErrMismatch},
		{name: "Empty password", hash: hash, password: "", wantErr: ErrEmpty},
		{name: "Empty hash", hash: "", password: password, wantErr: ErrEmpty},
		{name: "Invalid hash format", hash: "invalid-hash", password: password, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.Check(tt.hash, tt.password)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrMismatch)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestBCryptHasher_InvalidCost(t *testing.T) {
	// Слишком низкая стоимость должна быть заменена на DefaultCost
	assert.Equal(t, DefaultCost, NewBCryptHasher(0).cost)

	// Слишком высокая стоимость должна быть заменена на DefaultCost
	assert.Equal(t, DefaultCost, NewBCryptHasher(100).cost)
}

func TestBCryptHasher_UniqueHashes(t *testing.T) {
	hasher := NewBCryptHasher(testCost)
	password := "testpassword"

	// Один и тот же пароль должен давать разные хеши (из-за соли)
	hash1, err := hasher.Hash(password)
	require.NoError(t, err)
	hash2, err := hasher.Hash(password)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
	assert.NoError(t, hasher.Check(hash1, password))
	assert.NoError(t, hasher.Check(hash2, password))
}
