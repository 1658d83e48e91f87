package billing

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/domain"
)

// EffectiveRequired возвращает сумму к оплате с учетом одобренной скидки, не меньше нуля
func EffectiveRequired(reg domain.Registration) decimal.Decimal {
	required := reg.RequiredAmount
	if reg.DiscountApproved {
		required = required.Sub(reg.DiscountAmount)
	}
	if required.IsNegative() {
		return decimal.Zero
	}
	return required
}

// ApprovedDiscount возвращает скидку, если она одобрена, иначе ноль
func ApprovedDiscount(reg domain.Registration) decimal.Decimal {
	if !reg.DiscountApproved {
		return decimal.Zero
	}
	return reg.DiscountAmount
}

// RealMoney оставляет только реальные денежные поступления
func RealMoney(payments []domain.Payment) []domain.Payment {
	result := make([]domain.Payment, 0, len(payments))
	for _, p := range payments {
		if p.IsRealMoney() {
			result = append(result, p)
		}
	}
	return result
}

// TotalPaid суммирует все переданные платежи
func TotalPaid(payments []domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// ValidateRegistration проверяет, что суммы регистрации не отрицательны
func ValidateRegistration(reg domain.Registration) error {
	if reg.RequiredAmount.IsNegative() {
		return &domain.InvalidAmountError{Field: "required_amount", Value: reg.RequiredAmount.String()}
	}
	if reg.DiscountAmount.IsNegative() {
		return &domain.InvalidAmountError{Field: "discount_amount", Value: reg.DiscountAmount.String()}
	}
	return nil
}

// ValidatePayments проверяет, что суммы платежей не отрицательны
func ValidatePayments(payments []domain.Payment) error {
	for _, p := range payments {
		if p.Amount.IsNegative() {
			return &domain.InvalidAmountError{Field: "payment[" + strconv.FormatInt(p.ID, 10) + "].amount", Value: p.Amount.String()}
		}
	}
	return nil
}

// Evaluate вычисляет статус оплаты регистрации.
// Учитываются все переданные платежи; отбор реальных денег выполняет вызывающий код.
func Evaluate(reg domain.Registration, payments []domain.Payment) (domain.PaymentStatusDetails, error) {
	if err := ValidateRegistration(reg); err != nil {
		return domain.PaymentStatusDetails{}, err
	}
	if err := ValidatePayments(payments); err != nil {
		return domain.PaymentStatusDetails{}, err
	}

	paid := TotalPaid(payments)
	expected := EffectiveRequired(reg)

	var status domain.PaymentStatus
	switch {
	case reg.DiscountApproved && paid.GreaterThanOrEqual(expected):
		status = domain.PaymentStatusFullDiscounted
	case reg.DiscountApproved:
		status = domain.PaymentStatusPartialDiscounted
	case paid.GreaterThan(reg.RequiredAmount):
		status = domain.PaymentStatusOver
	case paid.Equal(reg.RequiredAmount):
		status = domain.PaymentStatusFull
	default:
		status = domain.PaymentStatusPartial
	}

	return domain.PaymentStatusDetails{
		Paid:     paid,
		Expected: expected,
		Status:   status,
		Label:    status.Label(),
	}, nil
}
