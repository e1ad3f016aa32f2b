package models

import "strings"

// Document holds the extracted text of every PDF page in page order
type Document struct {
	Path  string
	Pages []string
}

// PageCount returns the number of pages read
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page1Text returns the first page's text, or "" for an empty document
func (d *Document) Page1Text() string {
	if len(d.Pages) == 0 {
		return ""
	}
	return d.Pages[0]
}

// FullText joins all non-empty pages, each followed by a newline
func (d *Document) FullText() string {
	var b strings.Builder
	for _, page := range d.Pages {
		if page == "" {
			continue
		}
		b.WriteString(page)
		b.WriteString("\n")
	}
	return b.String()
}

// IsEmpty reports whether no text at all was extracted
func (d *Document) IsEmpty() bool {
	return strings.TrimSpace(d.FullText()) == ""
}
