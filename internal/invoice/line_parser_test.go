package invoice

import (
	"regexp"
	"slices"
	"testing"

	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.RawInvoiceLine
	}{
		{
			name: "single invoice line",
			text: "Invoice #: INV-100 Paid Invoice Amount: 250.00 USD Invoice Date: 2024-01-15",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "INV-100", AmountText: "250.00", DateText: "2024-01-15", LineNo: 1},
			},
		},
		{
			name: "negative amount",
			text: "Invoice #: CM-7 Paid Invoice Amount: -75.50 USD Invoice Date: 2024-02-01",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "CM-7", AmountText: "-75.50", DateText: "2024-02-01", LineNo: 1},
			},
		},
		{
			name: "thousands separators are stripped",
			text: "Invoice # 88123 Paid Invoice Amount 12,345.6 USD Invoice Date 2023-12-31",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "88123", AmountText: "12345.6", DateText: "2023-12-31", LineNo: 1},
			},
		},
		{
			name: "en and em dashes become hyphens",
			text: "Invoice #: AB–12—3 Paid Invoice Amount: 10.00 USD Invoice Date: 2024-03-03",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "AB-12-3", AmountText: "10.00", DateText: "2024-03-03", LineNo: 1},
			},
		},
		{
			name: "case insensitive with surrounding noise",
			text: "   row 4: invoice #: x9 paid invoice amount: 1.5 usd invoice date: 2024-04-04 page 1  ",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "x9", AmountText: "1.5", DateText: "2024-04-04", LineNo: 1},
			},
		},
		{
			name: "fields split across lines are ignored",
			text: "Invoice #: INV-1\nPaid Invoice Amount: 250.00 USD\nInvoice Date: 2024-01-15",
			want: nil,
		},
		{
			name: "missing currency is ignored",
			text: "Invoice #: INV-1 Paid Invoice Amount: 250.00 Invoice Date: 2024-01-15",
			want: nil,
		},
		{
			name: "malformed date is ignored",
			text: "Invoice #: INV-1 Paid Invoice Amount: 250.00 USD Invoice Date: 01/15/2024",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "document order and line numbers",
			text: "Remittance Advice\r\n" +
				"Invoice #: B-2 Paid Invoice Amount: 2.00 USD Invoice Date: 2024-01-02\r\n" +
				"\r\n" +
				"Invoice #: A-1 Paid Invoice Amount: 1.00 USD Invoice Date: 2024-01-01\r\n",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "B-2", AmountText: "2.00", DateText: "2024-01-02", LineNo: 2},
				{InvoiceNumber: "A-1", AmountText: "1.00", DateText: "2024-01-01", LineNo: 4},
			},
		},
		{
			name: "no-break spaces between fields",
			text: "Invoice\u00a0#:\u00a0INV-100\u00a0Paid\u00a0Invoice\u00a0Amount:\u00a0250.00\u00a0USD\u00a0Invoice\u00a0Date:\u202f2024-01-15",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "INV-100", AmountText: "250.00", DateText: "2024-01-15", LineNo: 1},
			},
		},
		{
			name: "lone carriage return and unicode line separators",
			text: "Invoice #: A-1 Paid Invoice Amount: 1.00 USD Invoice Date: 2024-01-01\r" +
				"Invoice #: B-2 Paid Invoice Amount: 2.00 USD Invoice Date: 2024-01-02\u2028" +
				"Invoice #: C-3 Paid Invoice Amount: 3.00 USD Invoice Date: 2024-01-03\f",
			want: []models.RawInvoiceLine{
				{InvoiceNumber: "A-1", AmountText: "1.00", DateText: "2024-01-01", LineNo: 1},
				{InvoiceNumber: "B-2", AmountText: "2.00", DateText: "2024-01-02", LineNo: 2},
				{InvoiceNumber: "C-3", AmountText: "3.00", DateText: "2024-01-03", LineNo: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(ParseLines(tt.text))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineParser_Deterministic(t *testing.T) {
	text := "Invoice #: INV-1 Paid Invoice Amount: 1.00 USD Invoice Date: 2024-01-01\n" +
		"Invoice #: INV-2 Paid Invoice Amount: 2.00 USD Invoice Date: 2024-01-02\n"

	seq := ParseLines(text)
	first := slices.Collect(seq)
	second := slices.Collect(seq)

	require.Len(t, first, 2)
	assert.Equal(t, first, second)
	assert.Equal(t, first, slices.Collect(ParseLines(text)))
}

func TestLineParser_StopsEarly(t *testing.T) {
	text := "Invoice #: INV-1 Paid Invoice Amount: 1.00 USD Invoice Date: 2024-01-01\n" +
		"Invoice #: INV-2 Paid Invoice Amount: 2.00 USD Invoice Date: 2024-01-02\n"

	var got []string
	for line := range ParseLines(text) {
		got = append(got, line.InvoiceNumber)
		break
	}
	assert.Equal(t, []string{"INV-1"}, got)
}

func TestLineParser_CustomMatcher(t *testing.T) {
	matcher := NewRegexLineMatcher(regexp.MustCompile(`^(\S+);(\S+);(\S+)$`))
	parser := NewLineParser(matcher)

	got := slices.Collect(parser.Parse("header\nA-1;10.00;2024-01-01\n"))

	require.Len(t, got, 1)
	assert.Equal(t, "A-1", got[0].InvoiceNumber)
	assert.Equal(t, 2, got[0].LineNo)
}
