package invoice

import (
	"regexp"
	"strings"

	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/shopspring/decimal"
)

var (
	creditAmountLabel  = regexp.MustCompile(`(?i)\bCredit\s+Amount\b`)
	creditAmountValue  = regexp.MustCompile(`(?i)([\d,]+\.\d{2})\s*USD`)
	paymentAmountField = regexp.MustCompile(`(?i)Payment\s*Amount:\s*([\d,]+\.\d{2})`)
	paymentNumberField = regexp.MustCompile(`(?i)Payment\s*Number:\s*([A-Za-z0-9\-]+)`)
)

// ParseHeader extracts payment metadata.
// Credit Amount is read from pageTextForCredit (normally the first page): the
// value sits on the line after the "Credit Amount" label. Payment Amount and
// Payment Number are read from anywhere in fullText. Missing fields stay unset.
func ParseHeader(pageTextForCredit, fullText string) models.HeaderInfo {
	var header models.HeaderInfo
	fullText = foldSpace(fullText)

	if text, ok := findCreditAmount(pageTextForCredit); ok {
		header.CreditAmountText = text
		header.CreditAmount = parseAmount(text)
	}

	if m := paymentAmountField.FindStringSubmatch(fullText); len(m) > 1 {
		text := strings.TrimSpace(strings.ReplaceAll(m[1], ",", ""))
		header.PaymentAmountText = text
		header.PaymentAmount = parseAmount(text)
	}

	if m := paymentNumberField.FindStringSubmatch(fullText); len(m) > 1 {
		number := strings.TrimSpace(m[1])
		header.PaymentNumber = &number
	}

	return header
}

// findCreditAmount looks only at the first "Credit Amount" label; a single
// header block is expected per document
func findCreditAmount(pageText string) (string, bool) {
	lines := nonEmptyLines(pageText)
	for i, line := range lines {
		if !creditAmountLabel.MatchString(line) {
			continue
		}
		if i+1 >= len(lines) {
			return "", false
		}
		m := creditAmountValue.FindStringSubmatch(lines[i+1])
		if len(m) < 2 {
			return "", false
		}
		return strings.TrimSpace(strings.ReplaceAll(m[1], ",", "")), true
	}
	return "", false
}

func nonEmptyLines(text string) []string {
	var lines []string
	for line := range splitLines(text) {
		if trimmed := strings.TrimSpace(foldSpace(line)); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func parseAmount(text string) decimal.NullDecimal {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
