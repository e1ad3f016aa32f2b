// Package pdf extracts plain text from remittance advice PDFs.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/garyjia/remit2xlsx/internal/models"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrPDFNotFound     = errors.New("PDF file not found")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrPDFOpen         = errors.New("failed to open PDF")
	ErrUnknownEngine   = errors.New("unknown PDF engine")
)

// Engine selects the text extraction backend
type Engine string

const (
	// EngineFitz uses MuPDF through go-fitz
	EngineFitz Engine = "fitz"
	// EnginePure uses the pure Go ledongthuc/pdf reader
	EnginePure Engine = "pure"
)

// pageSource is an open PDF handle
type pageSource interface {
	NumPage() int
	// PageText returns the text of the 0-based page
	PageText(page int) (string, error)
	Close() error
}

type openFunc func(path string) (pageSource, error)

// Reader extracts text with the configured engine
type Reader struct {
	engine    Engine
	open      openFunc
	debugText bool
	logger    *zap.Logger
}

// NewReader creates a Reader. When debugText is set every page's text is
// logged at debug level.
func NewReader(engine Engine, debugText bool, logger *zap.Logger) (*Reader, error) {
	var open openFunc
	switch engine {
	case EngineFitz, "":
		engine = EngineFitz
		open = openFitz
	case EnginePure:
		open = openPure
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}

	return &Reader{
		engine:    engine,
		open:      open,
		debugText: debugText,
		logger:    logger,
	}, nil
}

// Extract reads every page of the PDF at path. The document handle is
// closed before Extract returns, also on failure. Pages whose text cannot be
// read are logged and kept as empty pages.
func (r *Reader) Extract(ctx context.Context, path string) (*models.Document, error) {
	r.logger.Info("Reading PDF text",
		zap.String("path", path),
		zap.String("engine", string(r.engine)))

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPDFNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat PDF: %w", err)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pdf" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, ext)
	}

	src, err := r.open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPDFOpen, path, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			r.logger.Warn("Failed to close PDF", zap.String("path", path), zap.Error(cerr))
		}
	}()

	doc, err := r.readPages(ctx, src)
	if err != nil {
		return nil, err
	}
	doc.Path = path

	r.logger.Info("Read PDF text",
		zap.String("path", path),
		zap.Int("page_count", doc.PageCount()),
		zap.Int("text_length", len(doc.FullText())))

	return doc, nil
}

func (r *Reader) readPages(ctx context.Context, src pageSource) (*models.Document, error) {
	pageCount := src.NumPage()
	doc := &models.Document{Pages: make([]string, 0, pageCount)}

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := src.PageText(pageNum)
		if err != nil {
			r.logger.Warn("Failed to extract page text",
				zap.Int("page", pageNum+1),
				zap.Error(err))
			text = ""
		}
		text = norm.NFC.String(text)

		if r.debugText {
			r.logger.Debug("Page text",
				zap.Int("page", pageNum+1),
				zap.String("text", text))
		}

		doc.Pages = append(doc.Pages, text)
	}

	return doc, nil
}
