package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/service"
	"go.uber.org/zap"
)

// EnrollmentService определяет методы работы с участниками и регистрациями
type EnrollmentService interface {
	CreateParticipant(ctx context.Context, in service.ParticipantInput) (*domain.Participant, error)
	GetParticipant(ctx context.Context, id int64) (*domain.Participant, error)
	Register(ctx context.Context, in service.RegistrationInput) (*domain.Registration, error)
	GetRegistration(ctx context.Context, id int64) (*domain.Registration, error)
	UpdateRegistration(ctx context.Context, id int64, update domain.RegistrationUpdate) (*domain.Registration, error)
	RegistrationStatus(ctx context.Context, id int64) (domain.PaymentStatusDetails, error)
}

type EnrollmentHandler struct {
	enrollmentService EnrollmentService
	logger            *zap.Logger
}

func NewEnrollmentHandler(enrollmentService EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollmentService: enrollmentService,
		logger:            logger,
	}
}

type participantRequest struct {
	NationalID string `json:"national_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
}

type registrationRequest struct {
	ProductID        int64            `json:"product_id"`
	ParticipantID    int64            `json:"participant_id"`
	RequiredAmount   *decimal.Decimal `json:"required_amount"`
	DiscountAmount   *decimal.Decimal `json:"discount_amount"`
	DiscountApproved bool             `json:"discount_approved"`
	RegistrationDate string           `json:"registration_date"`
}

type registrationUpdateRequest struct {
	RequiredAmount   *decimal.Decimal `json:"required_amount"`
	DiscountAmount   *decimal.Decimal `json:"discount_amount"`
	DiscountApproved *bool            `json:"discount_approved"`
}

func (h *EnrollmentHandler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	participant, err := h.enrollmentService.CreateParticipant(r.Context(), service.ParticipantInput{
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, participant, h.logger)
}

func (h *EnrollmentHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	participant, err := h.enrollmentService.GetParticipant(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, participant, h.logger)
}

func (h *EnrollmentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	reg, err := h.enrollmentService.Register(r.Context(), service.RegistrationInput{
		ProductID:        req.ProductID,
		ParticipantID:    req.ParticipantID,
		RequiredAmount:   req.RequiredAmount,
		DiscountAmount:   req.DiscountAmount,
		DiscountApproved: req.DiscountApproved,
		RegistrationDate: req.RegistrationDate,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, reg, h.logger)
}

func (h *EnrollmentHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	reg, err := h.enrollmentService.GetRegistration(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, reg, h.logger)
}

func (h *EnrollmentHandler) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req registrationUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	reg, err := h.enrollmentService.UpdateRegistration(r.Context(), id, domain.RegistrationUpdate{
		RequiredAmount:   req.RequiredAmount,
		DiscountAmount:   req.DiscountAmount,
		DiscountApproved: req.DiscountApproved,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, reg, h.logger)
}

func (h *EnrollmentHandler) RegistrationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	status, err := h.enrollmentService.RegistrationStatus(r.Context(), id)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, status, h.logger)
}
