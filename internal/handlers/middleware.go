package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/metrics"
	"github.com/swimschool/billing/internal/utils/jwt"
	"go.uber.org/zap"
)

type contextKey string

const (
	SessionKey   contextKey = "session"
	RequestIDKey contextKey = "request_id"
)

// bearerSession извлекает сессию из заголовка Authorization; ok=false, если заголовка нет
func bearerSession(r *http.Request, jwtManager *jwt.Manager) (session domain.Session, ok bool, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return domain.Session{}, false, nil
	}

	// Извлекаем токен из заголовка "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.Session{}, true, jwt.ErrInvalidToken
	}

	session, err = jwtManager.Validate(parts[1])
	return session, true, err
}

// AuthMiddleware проверяет JWT токен и кладет сессию сотрудника в контекст
func AuthMiddleware(jwtManager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok, err := bearerSession(r, jwtManager)
			if !ok || err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware как AuthMiddleware, но пропускает запросы без заголовка Authorization
func OptionalAuthMiddleware(jwtManager *jwt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok, err := bearerSession(r, jwtManager)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffDirectory отдает актуальную запись сотрудника
type StaffDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*domain.StaffUser, error)
}

// RequireReportAccess пропускает только сотрудников с доступом к отчетам.
// Права читаются из базы на каждый запрос, поэтому отзыв доступа действует сразу.
func RequireReportAccess(users StaffDirectory, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireStaff(users, logger, func(u *domain.StaffUser) bool { return u.ReportAccess })
}

// RequireAdmin пропускает только администраторов
func RequireAdmin(users StaffDirectory, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireStaff(users, logger, func(u *domain.StaffUser) bool { return u.Role == domain.StaffRoleAdmin })
}

func requireStaff(users StaffDirectory, logger *zap.Logger, allowed func(*domain.StaffUser) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := users.GetUserByID(r.Context(), session.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
					return
				}
				logger.Error("failed to load staff user", zap.Int64("user_id", session.UserID), zap.Error(err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			if !allowed(user) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware генерирует уникальный request ID
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.New().String()
			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware логирует HTTP запросы
func LoggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Используем chi middleware wrapper для получения статуса
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				requestID, _ := r.Context().Value(RequestIDKey).(string)
				logger.Info("HTTP request",
					zap.String("request_id", requestID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// MetricsMiddleware считает запросы и их длительность по шаблону маршрута
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// Шаблон маршрута известен только после обработки запроса роутером
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// RecoveryMiddleware обрабатывает паники
func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID, _ := r.Context().Value(RequestIDKey).(string)
					logger.Error("panic recovered",
						zap.String("request_id", requestID),
						zap.Any("panic", rec),
					)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// GetSession извлекает сессию сотрудника из контекста
func GetSession(ctx context.Context) (domain.Session, bool) {
	session, ok := ctx.Value(SessionKey).(domain.Session)
	return session, ok
}
