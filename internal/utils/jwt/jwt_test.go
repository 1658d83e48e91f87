package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swimschool/billing/internal/domain"
)

func TestManager_Generate(t *testing.T) {
	tests := []struct {
		name      string
		secretKey string
		tokenTTL  time.Duration
		session   domain.Session
	}{
		{
			name:      "Admin with report access",
			secretKey: "test-secret-key",
			tokenTTL:  time.Hour,
			session:   domain.Session{UserID: 12345, Role: domain.StaffRoleAdmin, ReportAccess: true},
		},
		{
			name:      "Instructor without report access",
			secretKey: "another-secret",
			tokenTTL:  time.Minute * 30,
			session:   domain.Session{UserID: 99999, Role: domain.StaffRoleInstructor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.secretKey, tt.tokenTTL)
			token, err := m.Generate(tt.session)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			session, err := m.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, tt.session, session)
		})
	}
}

func TestManager_Validate(t *testing.T) {
	secretKey := "test-secret-key"
	session := domain.Session{UserID: 12345, Role: domain.StaffRoleInstructor}

	t.Run("Invalid token - wrong secret", func(t *testing.T) {
		token, err := NewManager(secretKey, time.Hour).Generate(session)
		require.NoError(t, err)

		_, err = NewManager("wrong-secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Invalid token - malformed", func(t *testing.T) {
		_, err := NewManager(secretKey, time.Hour).Validate("invalid.token.string")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Invalid token - empty", func(t *testing.T) {
		_, err := NewManager(secretKey, time.Hour).Validate("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token", func(t *testing.T) {
		m := NewManager(secretKey, time.Minute)
		issued := time.Now()
		m.now = func() time.Time { return issued }

		token, err := m.Generate(session)
		require.NoError(t, err)

		m.now = func() time.Time { return issued.Add(2 * time.Minute) }
		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Unsigned token", func(t *testing.T) {
		_, err := NewManager(secretKey, time.Hour).Validate("eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ1c2VyX2lkIjoxMjM0NX0.")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func BenchmarkManager_Validate(b *testing.B) {
	m := NewManager("test-secret-key", time.Hour)
	token, _ := m.Generate(domain.Session{UserID: 12345, Role: domain.StaffRoleAdmin})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Validate(token)
	}
}
