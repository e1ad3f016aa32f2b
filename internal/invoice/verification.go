package invoice

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/shopspring/decimal"
)

// amountFormatter renders 1234.5 as "1,234.50"
var amountFormatter = money.NewFormatter(2, ".", ",", "", "1")

// Verification is the user-facing comparison of the spreadsheet TOTAL with
// the totals stated in the document
type Verification struct {
	OK      bool
	Message string
}

// Verify compares the final total with Payment Amount and Credit Amount.
// OK is true only when both header totals agree with the total; a missing
// Credit Amount is accepted.
func Verify(result models.ReconciliationResult, header models.HeaderInfo) Verification {
	if !header.HasPaymentAmount() {
		return Verification{Message: "No Payment Amount found in PDF."}
	}
	if !header.PaymentAmount.Valid {
		return Verification{Message: "Could not interpret Payment Amount as a number."}
	}

	total := result.Total
	payment := header.PaymentAmount.Decimal
	credit := header.CreditAmount

	ok := WithinTolerance(payment, total)
	if credit.Valid {
		ok = ok && WithinTolerance(credit.Decimal, total)
	}

	var b strings.Builder
	if ok {
		fmt.Fprintf(&b, "✅ Excel TOTAL (%s) matches Payment Amount (%s) and Credit Amount (%s).",
			FormatAmount(total), FormatAmount(payment), formatOptional(credit))
	} else {
		b.WriteString("⚠️ WARNING:\n")
		fmt.Fprintf(&b, "  - Excel TOTAL: %s\n", FormatAmount(total))
		fmt.Fprintf(&b, "  - Payment Amount (PDF): %s\n", FormatAmount(payment))
		fmt.Fprintf(&b, "  - Credit Amount (PDF): %s\n", formatOptional(credit))
		b.WriteString("Values do not match.")
	}

	if result.AdjustmentApplied {
		adjustment := result.Records[len(result.Records)-1].Amount.Decimal
		fmt.Fprintf(&b, "\nA %s row of %s was added so the TOTAL equals Payment Amount.",
			models.AdjustmentInvoiceNumber, FormatAmount(adjustment))
	}

	return Verification{OK: ok, Message: b.String()}
}

// FormatAmount renders an amount with thousands separators and two decimals
func FormatAmount(d decimal.Decimal) string {
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return amountFormatter.Format(cents)
}

func formatOptional(d decimal.NullDecimal) string {
	if !d.Valid {
		return "n/a"
	}
	return FormatAmount(d.Decimal)
}
