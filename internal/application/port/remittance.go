package port

import (
	"context"

	"github.com/garyjia/remit2xlsx/internal/models"
)

// TextExtractor reads the text of a PDF document
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*models.Document, error)
}

// ReportWriter emits the reconciled records as a spreadsheet
type ReportWriter interface {
	Write(ctx context.Context, outputPath string, result models.ReconciliationResult, header models.HeaderInfo) error
}
