package invoice

import (
	"iter"
	"regexp"
	"strings"

	"github.com/garyjia/remit2xlsx/internal/models"
)

// LineMatcher recognizes a single remittance line
type LineMatcher interface {
	// TryMatch returns the raw invoice fields found on line, if any
	TryMatch(line string) (models.RawInvoiceLine, bool)
}

// invoiceLinePattern requires invoice number, paid amount in USD and invoice
// date on the same physical line
var invoiceLinePattern = regexp.MustCompile(
	`(?i)Invoice\s*#\s*:?\s*([A-Za-z0-9][A-Za-z0-9\-–—]*)\s+` +
		`Paid\s+Invoice\s+Amount\s*:?\s*(-?[\d,]+\.\d{1,2})\s*USD\s+` +
		`Invoice\s+Date\s*:?\s*([0-9]{4}-[0-9]{2}-[0-9]{2})`,
)

var dashReplacer = strings.NewReplacer("–", "-", "—", "-")

// RegexLineMatcher matches remittance lines with a regular expression whose
// first three groups are invoice number, amount and date
type RegexLineMatcher struct {
	pattern *regexp.Regexp
}

// NewRegexLineMatcher creates a matcher for a custom pattern
func NewRegexLineMatcher(pattern *regexp.Regexp) *RegexLineMatcher {
	return &RegexLineMatcher{pattern: pattern}
}

// DefaultLineMatcher returns the matcher for the standard remittance layout
func DefaultLineMatcher() *RegexLineMatcher {
	return NewRegexLineMatcher(invoiceLinePattern)
}

// TryMatch implements LineMatcher
func (m *RegexLineMatcher) TryMatch(line string) (models.RawInvoiceLine, bool) {
	match := m.pattern.FindStringSubmatch(strings.TrimSpace(foldSpace(line)))
	if len(match) < 4 {
		return models.RawInvoiceLine{}, false
	}

	return models.RawInvoiceLine{
		InvoiceNumber: strings.TrimSpace(dashReplacer.Replace(match[1])),
		AmountText:    strings.TrimSpace(strings.ReplaceAll(match[2], ",", "")),
		DateText:      strings.TrimSpace(match[3]),
	}, true
}

// LineParser turns extracted document text into raw invoice lines
type LineParser struct {
	matcher LineMatcher
}

// NewLineParser creates a parser using matcher; nil selects the default
func NewLineParser(matcher LineMatcher) *LineParser {
	if matcher == nil {
		matcher = DefaultLineMatcher()
	}
	return &LineParser{matcher: matcher}
}

// Parse yields one RawInvoiceLine per matching line, in document order.
// Lines break on \n, \r\n, a lone \r and the other Unicode line separators.
// Each line is matched on its own; fields spread across lines never combine.
// The returned sequence can be ranged over any number of times.
func (p *LineParser) Parse(rawText string) iter.Seq[models.RawInvoiceLine] {
	return func(yield func(models.RawInvoiceLine) bool) {
		lineNo := 0
		for line := range splitLines(rawText) {
			lineNo++
			raw, ok := p.matcher.TryMatch(line)
			if !ok {
				continue
			}
			raw.LineNo = lineNo
			if !yield(raw) {
				return
			}
		}
	}
}

// ParseLines parses rawText with the default matcher
func ParseLines(rawText string) iter.Seq[models.RawInvoiceLine] {
	return NewLineParser(nil).Parse(rawText)
}
