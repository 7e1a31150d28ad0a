package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobkit/internal/errors"

	"github.com/ledongthuc/pdf"
)

// Metadata describes an uploaded or stored document without its content
type Metadata struct {
	FileName       string `json:"file_name"`
	FileType       string `json:"file_type"`
	FileSizeBytes  int64  `json:"file_size_bytes"`
	PageCount      int    `json:"page_count,omitempty"`
	ParagraphCount int    `json:"paragraph_count,omitempty"`
	WordCount      int    `json:"word_count"`
	CharacterCount int    `json:"character_count"`
}

// ExtractText reads the text content of a PDF or DOCX document. Other
// extensions are rejected with a typed validation error.
func ExtractText(path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.NewIOError(
			errors.ErrCodeFileNotFound,
			fmt.Sprintf("document not found: %s", path),
			err,
		).WithContext("path", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return extractPDFText(path)
	case ".docx", ".doc":
		text, err := ReadDOCX(path)
		if err != nil {
			return "", errors.NewIOError(
				errors.ErrCodeFileNotReadable,
				fmt.Sprintf("failed to extract text from %s", path),
				err,
			).WithContext("path", path)
		}
		return text, nil
	default:
		return "", errors.NewValidationError(
			errors.ErrCodeUnsupportedFile,
			fmt.Sprintf("Unsupported file type: %s (expected .pdf or .docx)", ext),
			nil,
		).WithContext("path", path)
	}
}

// ExtractMetadata reads a document's text and summarizes it
func ExtractMetadata(path string) (*Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIOError(
			errors.ErrCodeFileNotFound,
			fmt.Sprintf("document not found: %s", path),
			err,
		).WithContext("path", path)
	}

	text, err := ExtractText(path)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	md := &Metadata{
		FileName:       filepath.Base(path),
		FileType:       strings.TrimPrefix(ext, "."),
		FileSizeBytes:  info.Size(),
		WordCount:      len(strings.Fields(text)),
		CharacterCount: len(text),
	}

	switch ext {
	case ".pdf":
		md.PageCount = strings.Count(text, "--- Page ")
	case ".docx", ".doc":
		md.ParagraphCount = len(strings.Split(strings.TrimSpace(text), "\n"))
	}

	return md, nil
}

// extractPDFText pulls per-page text with page markers so downstream
// prompts can reference locations.
func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", errors.NewIOError(
			errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to open PDF %s", path),
			err,
		).WithContext("path", path)
	}
	defer f.Close()

	var b strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", errors.NewIOError(
				errors.ErrCodeFileNotReadable,
				fmt.Sprintf("failed to extract text from page %d of %s", i, path),
				err,
			).WithContext("path", path).WithContext("page", i)
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", i)
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String()), nil
}
