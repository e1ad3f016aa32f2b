package invoice

import (
	"testing"

	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(number, amount string) models.InvoiceRecord {
	return models.InvoiceRecord{
		InvoiceNumber: number,
		Amount:        decimal.NewNullDecimal(decimal.RequireFromString(amount)),
		InvoiceDate:   "2024-01-01",
	}
}

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func decEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestReconcile_Matched(t *testing.T) {
	records := []models.InvoiceRecord{record("A", "300.00"), record("B", "200.00")}
	header := models.HeaderInfo{PaymentAmount: amount("500.00"), CreditAmount: amount("500.00")}

	result := Reconcile(records, header)

	assert.Equal(t, models.ReconcileStatusMatched, result.Status)
	assert.False(t, result.AdjustmentApplied)
	assert.Len(t, result.Records, 2)
	decEqual(t, "500.00", result.Total)
	assert.Empty(t, result.Warnings)
}

func TestReconcile_AddsAdjustmentWhenCreditMatches(t *testing.T) {
	records := []models.InvoiceRecord{record("A", "300.00"), record("B", "180.00")}
	header := models.HeaderInfo{PaymentAmount: amount("500.00"), CreditAmount: amount("480.00")}

	result := Reconcile(records, header)

	assert.Equal(t, models.ReconcileStatusAdjusted, result.Status)
	assert.True(t, result.AdjustmentApplied)
	require.Len(t, result.Records, 3)

	adj := result.Records[2]
	assert.True(t, adj.IsAdjustment())
	assert.Equal(t, "", adj.InvoiceDate)
	decEqual(t, "20.00", adj.Amount.Decimal)
	decEqual(t, "500.00", result.Total)
	assert.Empty(t, result.Warnings)

	// input is untouched
	assert.Len(t, records, 2)
}

func TestReconcile_NegativeAdjustment(t *testing.T) {
	records := []models.InvoiceRecord{record("A", "520.00")}
	header := models.HeaderInfo{PaymentAmount: amount("500.00"), CreditAmount: amount("520.00")}

	result := Reconcile(records, header)

	require.True(t, result.AdjustmentApplied)
	decEqual(t, "-20.00", result.Records[1].Amount.Decimal)
	decEqual(t, "500.00", result.Total)
}

func TestReconcile_MismatchWithoutCredit(t *testing.T) {
	records := []models.InvoiceRecord{record("A", "450.00")}
	header := models.HeaderInfo{PaymentAmount: amount("500.00")}

	result := Reconcile(records, header)

	assert.Equal(t, models.ReconcileStatusMismatch, result.Status)
	assert.False(t, result.AdjustmentApplied)
	assert.Len(t, result.Records, 1)
	decEqual(t, "450.00", result.Total)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.WarningReconciliationMismatch, result.Warnings[0].Kind)
	assert.Contains(t, result.Warnings[0].Message, "450.00")
	assert.Contains(t, result.Warnings[0].Message, "500.00")
}

func TestReconcile_MismatchWhenCreditDiffers(t *testing.T) {
	records := []models.InvoiceRecord{record("A", "450.00")}
	header := models.HeaderInfo{PaymentAmount: amount("500.00"), CreditAmount: amount("470.00")}

	result := Reconcile(records, header)

	assert.Equal(t, models.ReconcileStatusMismatch, result.Status)
	assert.False(t, result.AdjustmentApplied)
}

func TestReconcile_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		name       string
		total      string
		wantStatus models.ReconcileStatus
	}{
		{name: "just under a cent", total: "99.9900001", wantStatus: models.ReconcileStatusMatched},
		{name: "exactly a cent", total: "99.99", wantStatus: models.ReconcileStatusMismatch},
		{name: "exact", total: "100.00", wantStatus: models.ReconcileStatusMatched},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := models.HeaderInfo{PaymentAmount: amount("100.00")}
			result := Reconcile([]models.InvoiceRecord{record("A", tt.total)}, header)
			assert.Equal(t, tt.wantStatus, result.Status)
		})
	}
}

func TestReconcile_ExactCentTriggersAdjustment(t *testing.T) {
	header := models.HeaderInfo{PaymentAmount: amount("100.00"), CreditAmount: amount("99.99")}

	result := Reconcile([]models.InvoiceRecord{record("A", "99.99")}, header)

	require.True(t, result.AdjustmentApplied)
	decEqual(t, "0.01", result.Records[1].Amount.Decimal)
}

func TestReconcile_InvalidAmountsCountAsZero(t *testing.T) {
	records := []models.InvoiceRecord{
		record("A", "480.00"),
		{InvoiceNumber: "B", InvoiceDate: "2024-01-01"},
	}
	header := models.HeaderInfo{PaymentAmount: amount("500.00"), CreditAmount: amount("480.00")}

	result := Reconcile(records, header)

	assert.True(t, result.AdjustmentApplied)
	decEqual(t, "500.00", result.Total)
}

func TestReconcile_NoPaymentAmount(t *testing.T) {
	result := Reconcile([]models.InvoiceRecord{record("A", "1.00")}, models.HeaderInfo{})

	assert.Equal(t, models.ReconcileStatusUnverified, result.Status)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.WarningPaymentAmountMissing, result.Warnings[0].Kind)
	decEqual(t, "1.00", result.Total)
}

func TestReconcile_UnparseableHeaderAmounts(t *testing.T) {
	header := models.HeaderInfo{PaymentAmountText: "5O0.00", CreditAmountText: "4,8O.00"}

	result := Reconcile([]models.InvoiceRecord{record("A", "1.00")}, header)

	assert.Equal(t, models.ReconcileStatusUnverified, result.Status)
	assert.False(t, result.AdjustmentApplied)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "Credit Amount", result.Warnings[0].Field)
	assert.Equal(t, "Payment Amount", result.Warnings[1].Field)
	assert.Equal(t, "5O0.00", result.Warnings[1].Value)
}

func TestReconcile_Idempotent(t *testing.T) {
	records := []models.InvoiceRecord{record("A", "300.00"), record("B", "180.00")}
	header := models.HeaderInfo{PaymentAmount: amount("500.00"), CreditAmount: amount("480.00")}

	first := Reconcile(records, header)
	second := Reconcile(records, header)

	assert.Equal(t, first.AdjustmentApplied, second.AdjustmentApplied)
	assert.True(t, first.Total.Equal(second.Total))
	assert.Equal(t, len(first.Records), len(second.Records))
}

func TestReconcile_EndToEnd(t *testing.T) {
	page := "Payment Number: PN-1\nPayment Amount: 500.00\nCredit Amount\n480.00 USD\n"
	full := page +
		"Invoice #: INV-1 Paid Invoice Amount: 300.00 USD Invoice Date: 2024-01-01\n" +
		"Invoice #: INV-2 Paid Invoice Amount: 180.00 USD Invoice Date: 2024-01-02\n" +
		"Invoice #: INV-1 Paid Invoice Amount: 300.00 USD Invoice Date: 2024-01-01\n"

	records, warnings := Normalize(ParseLines(full))
	require.Empty(t, warnings)

	result := Reconcile(records, ParseHeader(page, full))

	require.Len(t, result.Records, 3)
	assert.Equal(t, models.AdjustmentInvoiceNumber, result.Records[2].InvoiceNumber)
	decEqual(t, "20.00", result.Records[2].Amount.Decimal)
	decEqual(t, "500.00", result.Total)
}
