// Package billing содержит расчеты расписания, статусов оплаты, сводок и выгрузок.
// Все функции чистые: не выполняют ввод-вывод и не изменяют входные данные.
package billing

import (
	"strconv"
	"strings"
	"time"

	"github.com/swimschool/billing/internal/domain"
)

const (
	// DateLayout формат календарной даты без времени
	DateLayout = "2006-01-02"

	// DefaultMeetingsTotal используется, когда у курса не задано количество встреч
	DefaultMeetingsTotal = 10
)

var weekdayLabels = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "ראשון": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "שני": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "שלישי": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "רביעי": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "חמישי": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "שישי": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "שבת": time.Saturday,
}

// WeekdaySet набор дней недели, в которые проходят встречи
type WeekdaySet [7]bool

// Contains сообщает, входит ли день в набор
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s[d]
}

// Len возвращает количество дней в наборе
func (s WeekdaySet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// ParseWeekdays преобразует подписи дней недели в набор.
// Суббота никогда не бывает днем встречи и отбрасывается.
func ParseWeekdays(labels []string) (WeekdaySet, error) {
	var set WeekdaySet
	for _, label := range labels {
		day, ok := weekdayLabels[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			return WeekdaySet{}, domain.NewScheduleError("day of week", label, "unknown weekday")
		}
		if day == time.Saturday {
			continue
		}
		set[day] = true
	}
	return set, nil
}

// ParseDate разбирает календарную дату в формате YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, domain.NewScheduleError("date", value, "expected YYYY-MM-DD")
	}
	return d, nil
}

// civil отбрасывает время и приводит дату к полуночи UTC
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween возвращает количество дней от a до b (обе даты приведены к civil)
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ComputeEndDate возвращает дату последней встречи курса.
// Если старт приходится на выбранный день, он считается встречей №1.
func ComputeEndDate(startDate time.Time, days WeekdaySet, meetingsCount int) (time.Time, error) {
	if startDate.IsZero() {
		return time.Time{}, domain.NewScheduleError("start date", "", "is required")
	}
	if meetingsCount <= 0 {
		return time.Time{}, domain.NewScheduleError("meetings count", strconv.Itoa(meetingsCount), "must be positive")
	}

	current := civil(startDate)
	perWeek := days.Len()
	if perWeek == 0 {
		return current, nil
	}

	// Любые 7 подряд идущих дней содержат ровно perWeek встреч
	remaining := meetingsCount
	if weeks := (remaining - 1) / perWeek; weeks > 0 {
		current = current.AddDate(0, 0, 7*weeks)
		remaining -= weeks * perWeek
	}

	for {
		if days.Contains(current.Weekday()) {
			remaining--
			if remaining == 0 {
				return current, nil
			}
		}
		current = current.AddDate(0, 0, 1)
	}
}

// countMeetings считает выбранные дни в интервале [from, to] включительно
func countMeetings(from, to time.Time, days WeekdaySet) int {
	if to.Before(from) {
		return 0
	}
	span := daysBetween(from, to) + 1
	count := (span / 7) * days.Len()
	day := from.AddDate(0, 0, (span/7)*7)
	for i := 0; i < span%7; i++ {
		if days.Contains(day.Weekday()) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

// Calculator вычисляет прогресс встреч курса
type Calculator struct {
	// DefaultTotal используется, когда у курса не задано количество встреч
	DefaultTotal int
	// EmptyScheduleCurrent значение текущей встречи для курса без дней недели
	EmptyScheduleCurrent int
}

// NewCalculator создает калькулятор с заданными значениями по умолчанию
func NewCalculator(defaultTotal, emptyScheduleCurrent int) *Calculator {
	return &Calculator{
		DefaultTotal:         defaultTotal,
		EmptyScheduleCurrent: emptyScheduleCurrent,
	}
}

func (c *Calculator) total(product domain.Product) (int, error) {
	switch {
	case product.MeetingsCount > 0:
		return product.MeetingsCount, nil
	case product.MeetingsCount < 0:
		return 0, domain.NewScheduleError("meetings count", strconv.Itoa(product.MeetingsCount), "must not be negative")
	case c.DefaultTotal > 0:
		return c.DefaultTotal, nil
	default:
		return 0, domain.NewScheduleError("default meetings total", strconv.Itoa(c.DefaultTotal), "must be positive")
	}
}

// ComputeProgress возвращает номер текущей встречи на дату referenceDate.
// Гарантируется 0 <= Current <= Total.
func (c *Calculator) ComputeProgress(product domain.Product, referenceDate time.Time) (domain.Progress, error) {
	total, err := c.total(product)
	if err != nil {
		return domain.Progress{}, err
	}
	if product.StartDate.IsZero() {
		return domain.Progress{}, domain.NewScheduleError("start date", "", "is required")
	}
	if referenceDate.IsZero() {
		return domain.Progress{}, domain.NewScheduleError("reference date", "", "is required")
	}

	days, err := ParseWeekdays(product.DaysOfWeek)
	if err != nil {
		return domain.Progress{}, err
	}
	if days.Len() == 0 {
		return domain.Progress{Current: clamp(c.EmptyScheduleCurrent, 0, total), Total: total}, nil
	}

	current := countMeetings(civil(product.StartDate), civil(referenceDate), days)
	return domain.Progress{Current: clamp(current, 0, total), Total: total}, nil
}

// MeetsOn сообщает, проходит ли у курса встреча в указанный день
func (c *Calculator) MeetsOn(product domain.Product, day time.Time) (bool, error) {
	if product.StartDate.IsZero() {
		return false, domain.NewScheduleError("start date", "", "is required")
	}
	days, err := ParseWeekdays(product.DaysOfWeek)
	if err != nil {
		return false, err
	}
	day = civil(day)
	if days.Len() == 0 || !days.Contains(day.Weekday()) || day.Before(civil(product.StartDate)) {
		return false, nil
	}

	total, err := c.total(product)
	if err != nil {
		return false, err
	}
	end, err := ComputeEndDate(product.StartDate, days, total)
	if err != nil {
		return false, err
	}
	return !day.After(end), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ProductEndDate вычисляет дату окончания курса по его расписанию
func ProductEndDate(product domain.Product) (time.Time, error) {
	days, err := ParseWeekdays(product.DaysOfWeek)
	if err != nil {
		return time.Time{}, err
	}
	return ComputeEndDate(product.StartDate, days, product.MeetingsCount)
}
