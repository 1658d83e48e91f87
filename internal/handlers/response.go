package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/service"
	"go.uber.org/zap"
)

// writeJSON отправляет значение в формате JSON
func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// decodeJSON читает тело запроса; неизвестные поля считаются ошибкой
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", service.ErrInvalidInput, err)
	}
	return nil
}

// pathID извлекает положительный числовой параметр маршрута
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", service.ErrInvalidInput, name)
	}
	return id, nil
}

// statusFor сопоставляет ошибку сервиса с HTTP статусом
func statusFor(err error) int {
	var (
		scheduleErr *domain.ScheduleError
		amountErr   *domain.InvalidAmountError
	)

	switch {
	case errors.As(err, &scheduleErr),
		errors.As(err, &amountErr),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidNationalID),
		errors.Is(err, domain.ErrEmptyRegistrationEdit):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrSeasonNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrRegistrationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrParticipantExists),
		errors.Is(err, domain.ErrRegistrationExists),
		errors.Is(err, domain.ErrProductFull):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError отправляет ошибку клиенту; неожиданные ошибки логируются без деталей в ответе
func writeError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		requestID, _ := r.Context().Value(RequestIDKey).(string)
		logger.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		http.Error(w, "Internal Server Error", status)
		return
	}
	http.Error(w, err.Error(), status)
}
