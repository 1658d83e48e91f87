package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/swimschool/billing/internal/domain"
)

// utf8BOM нужен табличным редакторам, чтобы распознать иврит в CSV
const utf8BOM = "\ufeff"

// WriteCSV записывает строки выгрузки в CSV с заголовком
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("export: failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("export: failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("export: failed to write registration %d: %w", row.RegistrationID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: failed to flush csv: %w", err)
	}

	return nil
}
