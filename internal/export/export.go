// Package export записывает строки выгрузки сезона в CSV и XLSX.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/swimschool/billing/internal/domain"
)

// Format формат файла выгрузки
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat разбирает формат из параметра запроса; пустое значение означает CSV
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", value)
	}
}

// ContentType возвращает MIME тип формата
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension возвращает расширение файла без точки
func (f Format) Extension() string {
	return string(f)
}

// Headers заголовки колонок выгрузки
var Headers = []string{
	"מס' רישום",
	"שם משתתף",
	"ת.ז.",
	"טלפון",
	"עונה",
	"מוצר",
	"סכום לתשלום",
	"סכום אחרי הנחה",
	"שולם",
	"הנחה",
	"מספרי קבלות",
	"מפגשים",
	"סטטוס",
}

func record(row domain.ExportRow) []string {
	return []string{
		strconv.FormatInt(row.RegistrationID, 10),
		row.ParticipantName,
		row.NationalID,
		row.Phone,
		row.SeasonName,
		row.ProductName,
		row.RequiredAmount.StringFixed(2),
		row.EffectiveAmount.StringFixed(2),
		row.TotalPaid.StringFixed(2),
		row.DiscountAmount.StringFixed(2),
		row.ReceiptNumbers,
		row.Progress,
		row.StatusLabel,
	}
}

// Write записывает строки в выбранном формате
func Write(w io.Writer, format Format, sheet string, rows []domain.ExportRow) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, sheet, rows)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
