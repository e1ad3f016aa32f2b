package invoice

import (
	"fmt"

	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/shopspring/decimal"
)

// Tolerance is the cent-level absolute tolerance for every monetary comparison
var Tolerance = decimal.New(1, -2)

// Reconcile sums the records and checks the sum against the header totals.
//
// When the sum differs from Payment Amount by at least Tolerance but equals
// Credit Amount, the difference is a payment/credit netting that is not listed
// as an invoice (e.g. a fee). A PAYMENT_ADJUSTMENT record carrying the
// difference is appended so the total equals Payment Amount. Any other
// difference is reported as a warning and left uncorrected.
//
// Records with an invalid amount count as zero. The input slice is not modified.
func Reconcile(records []models.InvoiceRecord, header models.HeaderInfo) models.ReconciliationResult {
	result := models.ReconciliationResult{
		Records: append([]models.InvoiceRecord(nil), records...),
		Status:  models.ReconcileStatusUnverified,
	}
	result.Total = Sum(result.Records)

	credit := header.CreditAmount
	if !credit.Valid && header.CreditAmountText != "" {
		result.Warnings = append(result.Warnings, models.Warning{
			Kind:    models.WarningHeaderAmountParseFailure,
			Field:   "Credit Amount",
			Value:   header.CreditAmountText,
			Message: fmt.Sprintf("Credit Amount %q could not be interpreted as a number", header.CreditAmountText),
		})
	}

	switch {
	case header.PaymentAmount.Valid:
	case header.PaymentAmountText != "":
		result.Warnings = append(result.Warnings, models.Warning{
			Kind:    models.WarningHeaderAmountParseFailure,
			Field:   "Payment Amount",
			Value:   header.PaymentAmountText,
			Message: fmt.Sprintf("Payment Amount %q could not be interpreted as a number; totals were not verified", header.PaymentAmountText),
		})
		return result
	default:
		result.Warnings = append(result.Warnings, models.Warning{
			Kind:    models.WarningPaymentAmountMissing,
			Field:   "Payment Amount",
			Message: "no Payment Amount found in the document; totals were not verified",
		})
		return result
	}

	payment := header.PaymentAmount.Decimal
	diff := payment.Sub(result.Total)
	if WithinTolerance(payment, result.Total) {
		result.Status = models.ReconcileStatusMatched
		return result
	}

	if credit.Valid && WithinTolerance(credit.Decimal, result.Total) {
		result.Records = append(result.Records, models.InvoiceRecord{
			InvoiceNumber: models.AdjustmentInvoiceNumber,
			Amount:        decimal.NewNullDecimal(diff),
			InvoiceDate:   "",
		})
		result.Total = Sum(result.Records)
		result.AdjustmentApplied = true
		result.Status = models.ReconcileStatusAdjusted
		return result
	}

	result.Status = models.ReconcileStatusMismatch
	result.Warnings = append(result.Warnings, models.Warning{
		Kind:    models.WarningReconciliationMismatch,
		Field:   "Payment Amount",
		Value:   payment.StringFixed(2),
		Message: mismatchMessage(result.Total, payment, credit),
	})
	return result
}

// Sum adds all valid record amounts
func Sum(records []models.InvoiceRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Amount.Valid {
			total = total.Add(r.Amount.Decimal)
		}
	}
	return total
}

// WithinTolerance reports whether |a - b| < Tolerance
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

func mismatchMessage(total, payment decimal.Decimal, credit decimal.NullDecimal) string {
	creditText := "not found"
	if credit.Valid {
		creditText = credit.Decimal.StringFixed(2)
	}
	return fmt.Sprintf("invoice total %s does not match Payment Amount %s (Credit Amount %s); difference %s was not adjusted",
		total.StringFixed(2), payment.StringFixed(2), creditText, payment.Sub(total).StringFixed(2))
}
