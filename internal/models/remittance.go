package models

import "github.com/shopspring/decimal"

// AdjustmentInvoiceNumber is the invoice number of the synthetic record that
// reconciles the invoice sum to the stated Payment Amount
const AdjustmentInvoiceNumber = "PAYMENT_ADJUSTMENT"

// RawInvoiceLine is one matched remittance line before validation
type RawInvoiceLine struct {
	InvoiceNumber string `json:"invoice_number"`
	AmountText    string `json:"amount_text"`
	DateText      string `json:"date_text"`
	LineNo        int    `json:"line_no"` // 1-based line in the full text, 0 if unknown
}

// InvoiceRecord is a normalized invoice row of the remittance advice.
// Amount is invalid when the amount text could not be parsed.
type InvoiceRecord struct {
	InvoiceNumber string              `json:"invoice_number"`
	Amount        decimal.NullDecimal `json:"amount"`
	InvoiceDate   string              `json:"invoice_date"`
}

// IsAdjustment reports whether the record was synthesized by reconciliation
func (r InvoiceRecord) IsAdjustment() bool {
	return r.InvoiceNumber == AdjustmentInvoiceNumber
}

// HeaderInfo holds the payment metadata found in the document header.
// Every field is optional. The *Text fields keep the matched text so that an
// unparseable amount can still be reported.
type HeaderInfo struct {
	Payer             *string             `json:"payer,omitempty"` // reserved, never populated
	PaymentNumber     *string             `json:"payment_number,omitempty"`
	PaymentAmount     decimal.NullDecimal `json:"payment_amount"`
	PaymentAmountText string              `json:"payment_amount_text,omitempty"`
	CreditAmount      decimal.NullDecimal `json:"credit_amount"`
	CreditAmountText  string              `json:"credit_amount_text,omitempty"`
}

// HasPaymentAmount reports whether a Payment Amount was found, parseable or not
func (h HeaderInfo) HasPaymentAmount() bool {
	return h.PaymentAmount.Valid || h.PaymentAmountText != ""
}

// HasCreditAmount reports whether a Credit Amount was found, parseable or not
func (h HeaderInfo) HasCreditAmount() bool {
	return h.CreditAmount.Valid || h.CreditAmountText != ""
}

// ReconcileStatus describes how the invoice sum relates to the header totals
type ReconcileStatus string

// Reconcile status constants
const (
	ReconcileStatusMatched    ReconcileStatus = "matched"
	ReconcileStatusAdjusted   ReconcileStatus = "adjusted"
	ReconcileStatusMismatch   ReconcileStatus = "mismatch"
	ReconcileStatusUnverified ReconcileStatus = "unverified"
)

// ReconciliationResult is the final record set handed to the report emitter
type ReconciliationResult struct {
	Records           []InvoiceRecord `json:"records"`
	Total             decimal.Decimal `json:"total"`
	AdjustmentApplied bool            `json:"adjustment_applied"`
	Status            ReconcileStatus `json:"status"`
	Warnings          []Warning       `json:"warnings,omitempty"`
}

// WarningKind classifies a non-fatal data-quality finding
type WarningKind string

// Warning kind constants
const (
	WarningAmountParseFailure       WarningKind = "amount_parse_failure"
	WarningHeaderAmountParseFailure WarningKind = "header_amount_parse_failure"
	WarningReconciliationMismatch   WarningKind = "reconciliation_mismatch"
	WarningPaymentAmountMissing     WarningKind = "payment_amount_missing"
)

// Warning is surfaced to the user next to a successful output
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Field   string      `json:"field"`
	Value   string      `json:"value"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return w.Message
}
