package service

import (
	"strings"
	"time"

	"github.com/swimschool/billing/internal/billing"
)

// dateOrToday разбирает дату запроса; пустое значение означает текущий день
func dateOrToday(value string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		y, m, d := now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return billing.ParseDate(value)
}
