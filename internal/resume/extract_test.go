package resume

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractTextTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("  Jane Doe\nPython, Django\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Jane Doe\nPython, Django" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	_, err := ExtractText("resume.odt")
	if err == nil {
		t.Fatal("expected an error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported resume format") {
		t.Fatalf("expected a descriptive error, got %v", err)
	}
}

func TestExtractTextExtensionCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.TXT")
	if err := os.WriteFile(path, []byte("content"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "content" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	if _, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
