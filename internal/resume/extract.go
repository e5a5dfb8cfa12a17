// Package resume extracts plain text from resume files for comparison
// against job descriptions.
package resume

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var xmlTagRe = regexp.MustCompile(`<[^>]+>`)

// ExtractText returns the text content of a PDF, DOCX or TXT resume. Any
// other extension fails fast with a descriptive error, before any analysis
// call is attempted.
func ExtractText(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading resume %q: %w", path, err)
		}
		return strings.TrimSpace(string(data)), nil
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	default:
		return "", fmt.Errorf("unsupported resume format %q: upload PDF, DOCX, or TXT", ext)
	}
}

// extractPDF shells out to pdftotext (poppler-utils), writing the layout-aware
// text to stdout.
func extractPDF(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdf extraction requires 'pdftotext' (install poppler-utils): %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

func extractDOCX(path string) (string, error) {
	reader, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("opening docx %q: %w", path, err)
	}
	defer reader.Close()

	// The document body is WordprocessingML; paragraph closes become line
	// breaks, remaining markup is stripped.
	content := reader.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	text := xmlTagRe.ReplaceAllString(content, "")

	return strings.TrimSpace(text), nil
}
