package handlers

import (
	"context"
	"net/http"

	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/service"
	"go.uber.org/zap"
)

// AuthService определяет методы регистрации и входа сотрудников
type AuthService interface {
	Register(ctx context.Context, caller *domain.Session, req service.RegisterRequest) (string, error)
	Login(ctx context.Context, login, password string) (string, error)
}

type AuthHandler struct {
	authService AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

type authRequest struct {
	Login        string           `json:"login"`
	Password     string           `json:"password"`
	Role         domain.StaffRole `json:"role,omitempty"`
	ReportAccess bool             `json:"report_access,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var caller *domain.Session
	if session, ok := GetSession(r.Context()); ok {
		caller = &session
	}

	token, err := h.authService.Register(r.Context(), caller, service.RegisterRequest{
		Login:        req.Login,
		Password:     req.Password,
		Role:         req.Role,
		ReportAccess: req.ReportAccess,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	w.WriteHeader(http.StatusOK)
}
