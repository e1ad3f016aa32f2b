package pdf

import (
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
	lpdf "github.com/ledongthuc/pdf"
)

type fitzSource struct {
	doc *fitz.Document
}

func openFitz(path string) (pageSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzSource{doc: doc}, nil
}

func (s *fitzSource) NumPage() int {
	return s.doc.NumPage()
}

func (s *fitzSource) PageText(page int) (string, error) {
	return s.doc.Text(page)
}

func (s *fitzSource) Close() error {
	return s.doc.Close()
}

type pureSource struct {
	file   *os.File
	reader *lpdf.Reader
}

func openPure(path string) (pageSource, error) {
	file, reader, err := lpdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &pureSource{file: file, reader: reader}, nil
}

func (s *pureSource) NumPage() int {
	return s.reader.NumPage()
}

// PageText maps the 0-based page to the reader's 1-based numbering
func (s *pureSource) PageText(page int) (text string, err error) {
	p := s.reader.Page(page + 1)
	if p.V.IsNull() {
		return "", nil
	}

	// the reader panics on some malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", page+1, rec)
		}
	}()

	return p.GetPlainText(nil)
}

func (s *pureSource) Close() error {
	return s.file.Close()
}
