package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/garyjia/remit2xlsx/internal/infrastructure/storage"
	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/garyjia/remit2xlsx/pkg/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// DefaultSheetName is used when the document has no Payment Number
	DefaultSheetName = "Invoices"
	// MaxSheetNameLength is Excel's sheet name limit
	MaxSheetNameLength = 31

	totalLabel = "TOTAL"

	// built-in number formats
	numFmtAmount = 4  // #,##0.00
	numFmtText   = 49 // @
)

var columnHeaders = []string{"Invoice Number", "Paid Invoice Amount", "Invoice Date"}

// sheetNameReplacer removes characters Excel does not allow in sheet names
var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// ExcelWriter renders a reconciliation result as an .xlsx workbook
type ExcelWriter struct {
	storage storage.FileStorage
	logger  *zap.Logger
}

// NewExcelWriter creates a new Excel writer that saves through fileStorage
func NewExcelWriter(fileStorage storage.FileStorage, logger *zap.Logger) *ExcelWriter {
	return &ExcelWriter{
		storage: fileStorage,
		logger:  logger,
	}
}

// Write builds the workbook and saves it to outputPath.
// The output file is either fully written or left untouched.
func (w *ExcelWriter) Write(ctx context.Context, outputPath string, result models.ReconciliationResult, header models.HeaderInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sheetName := SheetName(header)
	w.logger.Info("Writing Excel report",
		zap.String("output_path", outputPath),
		zap.String("sheet", sheetName),
		zap.Int("record_count", len(result.Records)))

	f, err := w.build(sheetName, result)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			w.logger.Warn("Failed to close workbook", zap.Error(cerr))
		}
	}()

	if err := w.storage.SaveAtomic(outputPath, func(out io.Writer) error {
		return f.Write(out)
	}); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	w.logger.Info("Excel report written successfully", zap.String("output_path", outputPath))
	return nil
}

// SheetName is the Payment Number cut to 31 characters, or "Invoices"
func SheetName(header models.HeaderInfo) string {
	if header.PaymentNumber == nil {
		return DefaultSheetName
	}

	name := sheetNameReplacer.Replace(strings.TrimSpace(*header.PaymentNumber))
	name = strings.Trim(name, "'")
	if utf8.RuneCountInString(name) > MaxSheetNameLength {
		name = string([]rune(name)[:MaxSheetNameLength])
	}
	if name == "" {
		return DefaultSheetName
	}
	return name
}

func (w *ExcelWriter) build(sheetName string, result models.ReconciliationResult) (*excelize.File, error) {
	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("invalid sheet name %q: %w", sheetName, err)
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return nil, err
	}

	sw := &sheetWriter{f: f, sheet: sheetName}

	for col, title := range columnHeaders {
		sw.set(col+1, 1, title)
	}
	sw.style(1, 1, len(columnHeaders), 1, styles.header)

	row := 2
	for _, rec := range result.Records {
		sw.set(1, row, strings.TrimSpace(utils.SanitizeString(rec.InvoiceNumber)))
		sw.style(1, row, 1, row, styles.text)

		if rec.Amount.Valid {
			sw.set(2, row, rec.Amount.Decimal.InexactFloat64())
			sw.measure(2, rec.Amount.Decimal.StringFixed(2))
		}
		sw.style(2, row, 2, row, styles.amount)

		sw.set(3, row, utils.SanitizeString(rec.InvoiceDate))
		row++
	}

	sw.set(1, row, totalLabel)
	sw.set(2, row, result.Total.InexactFloat64())
	sw.measure(2, result.Total.StringFixed(2))
	sw.style(1, row, 1, row, styles.totalLabel)
	sw.style(2, row, 2, row, styles.totalAmount)

	sw.autofit()

	if sw.err != nil {
		return nil, sw.err
	}
	ok = true
	return f, nil
}

type styleSet struct {
	header      int
	text        int
	amount      int
	totalLabel  int
	totalAmount int
}

func newStyleSet(f *excelize.File) (*styleSet, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	totalFont := &excelize.Font{Bold: true, Color: "FFFFFF"}
	green := excelize.Fill{Type: "pattern", Color: []string{"008000"}, Pattern: 1}

	s := &styleSet{}
	defs := []struct {
		target *int
		style  *excelize.Style
	}{
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Border:    thin,
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
		}},
		{&s.text, &excelize.Style{NumFmt: numFmtText}},
		{&s.amount, &excelize.Style{NumFmt: numFmtAmount}},
		{&s.totalLabel, &excelize.Style{Font: totalFont, Fill: green, Border: thin}},
		{&s.totalAmount, &excelize.Style{Font: totalFont, Fill: green, Border: thin, NumFmt: numFmtAmount}},
	}

	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return nil, fmt.Errorf("failed to create style: %w", err)
		}
		*d.target = id
	}
	return s, nil
}

// sheetWriter keeps the first error and the widest rendered value per column
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	widths map[int]int
	err    error
}

func (s *sheetWriter) set(col, row int, value interface{}) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellValue(s.sheet, cell, value); err != nil {
		s.err = fmt.Errorf("failed to set %s!%s: %w", s.sheet, cell, err)
		return
	}
	if str, ok := value.(string); ok {
		s.measure(col, str)
	}
}

func (s *sheetWriter) style(col1, row1, col2, row2, styleID int) {
	if s.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		s.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetCellStyle(s.sheet, from, to, styleID); err != nil {
		s.err = fmt.Errorf("failed to style %s!%s:%s: %w", s.sheet, from, to, err)
	}
}

func (s *sheetWriter) measure(col int, text string) {
	if s.widths == nil {
		s.widths = make(map[int]int)
	}
	if n := utf8.RuneCountInString(text); n > s.widths[col] {
		s.widths[col] = n
	}
}

// autofit sets every used column to its longest value plus 2
func (s *sheetWriter) autofit() {
	for col := 1; col <= len(columnHeaders); col++ {
		if s.err != nil {
			return
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetColWidth(s.sheet, name, name, float64(s.widths[col]+2)); err != nil {
			s.err = fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}
}
