package service

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/garyjia/remit2xlsx/internal/application/port"
	"github.com/garyjia/remit2xlsx/internal/invoice"
	"github.com/garyjia/remit2xlsx/internal/models"
	"github.com/garyjia/remit2xlsx/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request identifies one document to convert
type Request struct {
	PDFPath    string
	OutputPath string
}

// Result is the outcome of a successful run
type Result struct {
	RunID             string
	OutputPath        string
	PageCount         int
	MatchedLines      int
	DuplicatesDropped int
	Header            models.HeaderInfo
	Reconciliation    models.ReconciliationResult
	Warnings          []models.Warning
	Verification      invoice.Verification
}

// RemittanceService converts a remittance advice PDF into a reconciled spreadsheet
type RemittanceService interface {
	Process(ctx context.Context, req Request) (*Result, error)
}

type remittanceServiceImpl struct {
	extractor port.TextExtractor
	writer    port.ReportWriter
	parser    *invoice.LineParser
	logger    *zap.Logger
}

// NewRemittanceService creates a new RemittanceService. A nil parser uses the
// default remittance line layout.
func NewRemittanceService(
	extractor port.TextExtractor,
	writer port.ReportWriter,
	parser *invoice.LineParser,
	logger *zap.Logger,
) RemittanceService {
	if parser == nil {
		parser = invoice.NewLineParser(nil)
	}
	return &remittanceServiceImpl{
		extractor: extractor,
		writer:    writer,
		parser:    parser,
		logger:    logger,
	}
}

// Process runs extraction, parsing, reconciliation and report writing.
// Documents without invoice data return an error satisfying IsNoData; read
// and write failures wrap ErrPDFRead and ErrOutputWrite.
func (s *remittanceServiceImpl) Process(ctx context.Context, req Request) (*Result, error) {
	if err := utils.ValidateOutputPath(req.OutputPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID), zap.String("pdf_path", req.PDFPath))
	logger.Info("Processing remittance advice")

	doc, err := s.extractor.Extract(ctx, req.PDFPath)
	if err != nil {
		logger.Error("Failed to read PDF", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPDFRead, err)
	}
	if doc.IsEmpty() {
		logger.Warn("PDF contains no extractable text", zap.Int("page_count", doc.PageCount()))
		return nil, ErrExtractionEmpty
	}

	fullText := doc.FullText()
	lines := slices.Collect(s.parser.Parse(fullText))
	if len(lines) == 0 {
		logger.Warn("No invoice lines matched", zap.Int("page_count", doc.PageCount()))
		return nil, ErrNoInvoiceLines
	}

	header := invoice.ParseHeader(doc.Page1Text(), fullText)
	records, warnings := invoice.Normalize(slices.Values(lines))

	logger.Info("Parsed remittance advice",
		zap.Int("matched_lines", len(lines)),
		zap.Int("records", len(records)),
		zap.Stringp("payment_number", header.PaymentNumber),
		zap.String("payment_amount", header.PaymentAmountText),
		zap.String("credit_amount", header.CreditAmountText))

	reconciliation := invoice.Reconcile(records, header)
	warnings = append(warnings, reconciliation.Warnings...)

	logger.Info("Reconciled invoice total",
		zap.String("total", reconciliation.Total.StringFixed(2)),
		zap.String("status", string(reconciliation.Status)),
		zap.Bool("adjustment_applied", reconciliation.AdjustmentApplied))

	for _, w := range warnings {
		logger.Warn("Data quality warning",
			zap.String("kind", string(w.Kind)),
			zap.String("field", w.Field),
			zap.String("value", w.Value),
			zap.String("message", w.Message))
	}

	if err := s.writer.Write(ctx, req.OutputPath, reconciliation, header); err != nil {
		logger.Error("Failed to write Excel file", zap.String("output_path", req.OutputPath), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}

	return &Result{
		RunID:             runID,
		OutputPath:        req.OutputPath,
		PageCount:         doc.PageCount(),
		MatchedLines:      len(lines),
		DuplicatesDropped: len(lines) - len(records),
		Header:            header,
		Reconciliation:    reconciliation,
		Warnings:          warnings,
		Verification:      invoice.Verify(reconciliation, header),
	}, nil
}

// SuggestOutputPath names the spreadsheet after the PDF plus a timestamp,
// e.g. advice_20240115_101500.xlsx. The file goes to outputDir, or next to
// the PDF when outputDir is empty.
func SuggestOutputPath(pdfPath, outputDir, timestampLayout string, now time.Time) string {
	base := filepath.Base(pdfPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if outputDir == "" {
		outputDir = filepath.Dir(pdfPath)
	}
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.xlsx", name, now.Format(timestampLayout)))
}
