package invoice

import (
	"fmt"
	"iter"
	"strings"

	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/shopspring/decimal"
)

// Normalize converts raw lines into invoice records.
// Amounts that fail to parse become invalid decimals and produce a warning.
// Repeated invoice numbers keep the first occurrence only, so reprinted
// remittance lines are not counted twice. Input order is preserved.
func Normalize(raw iter.Seq[models.RawInvoiceLine]) ([]models.InvoiceRecord, []models.Warning) {
	var (
		records  []models.InvoiceRecord
		warnings []models.Warning
		seen     = make(map[string]struct{})
	)

	for line := range raw {
		number := strings.TrimSpace(line.InvoiceNumber)
		if number == "" {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}

		record := models.InvoiceRecord{
			InvoiceNumber: number,
			InvoiceDate:   strings.TrimSpace(line.DateText),
		}

		amountText := strings.TrimSpace(line.AmountText)
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			msg := fmt.Sprintf("invoice %s (line %d): paid amount %q is not a number and was excluded from the total",
				number, line.LineNo, amountText)
			warnings = append(warnings, models.Warning{
				Kind:    models.WarningAmountParseFailure,
				Field:   "Paid Invoice Amount",
				Value:   amountText,
				Message: msg,
			})
		} else {
			record.Amount = decimal.NewNullDecimal(amount)
		}

		records = append(records, record)
	}

	return records, warnings
}
