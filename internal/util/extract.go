package util

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/go-fitz"
)

// ExtractPDFText pulls plaintext out of a PDF file page by page.
func ExtractPDFText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("page %d: failed to extract text: %w", n+1, err)
		}
		pageText = strings.TrimSpace(pageText)
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", fmt.Errorf("no text extracted from PDF")
	}
	return result, nil
}

// ExtractUploadText converts an uploaded CV into plaintext. PDFs go through
// go-fitz; anything else is treated as UTF-8 text.
func ExtractUploadText(path, filename string, raw []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return ExtractPDFText(path)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("unsupported file encoding for %s", filename)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", fmt.Errorf("empty file %s", filename)
	}
	return text, nil
}
