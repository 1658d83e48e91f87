package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/swimschool/billing/internal/domain"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet имя листа, если вызывающий код не задал свое
const DefaultSheet = "רישומים"

// WriteXLSX записывает строки выгрузки в книгу Excel с одним листом справа налево
func WriteXLSX(w io.Writer, sheet string, rows []domain.ExportRow) error {
	sheet = sheetName(sheet)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("export: failed to name sheet: %w", err)
	}

	rtl := true
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("export: failed to set sheet view: %w", err)
	}

	for i, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("export: failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{
			row.RegistrationID,
			row.ParticipantName,
			row.NationalID,
			row.Phone,
			row.SeasonName,
			row.ProductName,
			row.RequiredAmount.InexactFloat64(),
			row.EffectiveAmount.InexactFloat64(),
			row.TotalPaid.InexactFloat64(),
			row.DiscountAmount.InexactFloat64(),
			row.ReceiptNumbers,
			row.Progress,
			row.StatusLabel,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("export: failed to write registration %d: %w", row.RegistrationID, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(Headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("export: failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: failed to write xlsx: %w", err)
	}

	return nil
}

// sheetName приводит имя листа к ограничениям Excel: до 31 символа, без []:*?/\
func sheetName(name string) string {
	name = strings.TrimSpace(strings.NewReplacer(
		"[", " ", "]", " ", ":", " ", "*", " ", "?", " ", "/", " ", "\\", " ",
	).Replace(name))
	if runes := []rune(name); len(runes) > 31 {
		name = strings.TrimSpace(string(runes[:31]))
	}
	if name == "" {
		return DefaultSheet
	}
	return name
}
