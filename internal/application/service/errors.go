package service

import "errors"

var (
	// No data errors: the run stops cleanly and the user is told nothing was found
	ErrExtractionEmpty = errors.New("no text could be extracted from the PDF")
	ErrNoInvoiceLines  = errors.New("no invoice data found in the PDF")

	// I/O errors: fatal for the run
	ErrPDFRead       = errors.New("failed to read PDF")
	ErrOutputWrite   = errors.New("failed to write Excel file")
	ErrInvalidOutput = errors.New("invalid output path")
)

// IsNoData reports whether err means the document held no usable invoice data
func IsNoData(err error) bool {
	return errors.Is(err, ErrExtractionEmpty) || errors.Is(err, ErrNoInvoiceLines)
}
