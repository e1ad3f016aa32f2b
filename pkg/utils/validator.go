package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// controlChars matches characters that are not allowed in spreadsheet XML
var controlChars = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

// ValidateOutputPath checks that a report path names an .xlsx file
func ValidateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("output path is empty")
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return fmt.Errorf("output file must have .xlsx extension, got %q", ext)
	}
	return nil
}

// SanitizeString removes control characters that PDF text extraction can
// leave behind. Tabs and newlines are kept.
func SanitizeString(s string) string {
	return controlChars.ReplaceAllString(s, "")
}
