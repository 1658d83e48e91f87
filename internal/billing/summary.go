package billing

import (
	"github.com/shopspring/decimal"
	"github.com/swimschool/billing/internal/domain"
)

// Summarize сводит регистрации группы (курс, сезон или день) в итоговые суммы.
// Ожидаемая сумма всегда считается после скидки, а оплаченная только по реальным деньгам.
// capacity задается для одного курса; 0 означает, что заполненность не считается.
func Summarize(regs []domain.Registration, paymentsByReg map[int64][]domain.Payment, capacity int) (domain.Summary, error) {
	summary := domain.Summary{
		TotalExpected: decimal.Zero,
		TotalPaid:     decimal.Zero,
		StatusCounts:  make(map[domain.PaymentStatus]int),
	}

	for _, reg := range regs {
		payments := paymentsByReg[reg.ID]
		if err := ValidatePayments(payments); err != nil {
			return domain.Summary{}, err
		}

		details, err := Evaluate(reg, RealMoney(payments))
		if err != nil {
			return domain.Summary{}, err
		}

		summary.Count++
		summary.TotalExpected = summary.TotalExpected.Add(details.Expected)
		summary.TotalPaid = summary.TotalPaid.Add(details.Paid)
		summary.StatusCounts[details.Status]++
	}

	summary.Difference = summary.TotalPaid.Sub(summary.TotalExpected)
	if capacity > 0 {
		summary.Capacity = capacity
		summary.FillRate = fillRate(summary.Count, capacity)
	}

	return summary, nil
}

// Combine объединяет сводки двух непересекающихся групп
func Combine(a, b domain.Summary) domain.Summary {
	result := domain.Summary{
		Count:         a.Count + b.Count,
		TotalExpected: a.TotalExpected.Add(b.TotalExpected),
		TotalPaid:     a.TotalPaid.Add(b.TotalPaid),
		StatusCounts:  make(map[domain.PaymentStatus]int, len(a.StatusCounts)+len(b.StatusCounts)),
	}
	result.Difference = result.TotalPaid.Sub(result.TotalExpected)

	for status, n := range a.StatusCounts {
		result.StatusCounts[status] += n
	}
	for status, n := range b.StatusCounts {
		result.StatusCounts[status] += n
	}

	// Пустая сводка без вместимости нейтральна
	capA, capB := a.Capacity, b.Capacity
	if capA == 0 && a.Count == 0 {
		capA = capB
	}
	if capB == 0 && b.Count == 0 {
		capB = capA
	}
	if capA > 0 && capA == capB {
		result.Capacity = capA
		result.FillRate = fillRate(result.Count, capA)
	}

	return result
}

func fillRate(count, capacity int) *float64 {
	rate := float64(count) / float64(capacity)
	return &rate
}
