package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/domain"
	"github.com/swimschool/billing/internal/service"
	"go.uber.org/zap"
)

// PaymentService определяет методы учета поступлений
type PaymentService interface {
	RecordPayment(ctx context.Context, in service.PaymentInput) (*domain.Payment, error)
	ListPayments(ctx context.Context, registrationID int64) ([]domain.Payment, error)
}

type PaymentHandler struct {
	paymentService PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

type paymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	ReceiptNumber string          `json:"receipt_number"`
	PaymentDate   string          `json:"payment_date"`
}

// RecordPayment добавляет поступление к регистрации из пути запроса
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	registrationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	payment, err := h.paymentService.RecordPayment(r.Context(), service.PaymentInput{
		RegistrationID: registrationID,
		Amount:         req.Amount,
		ReceiptNumber:  req.ReceiptNumber,
		PaymentDate:    req.PaymentDate,
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, payment, h.logger)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	registrationID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	payments, err := h.paymentService.ListPayments(r.Context(), registrationID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	if len(payments) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, payments, h.logger)
}
