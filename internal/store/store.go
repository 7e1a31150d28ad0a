// Package store persists generated and evaluated documents to the output
// directory and resolves them back by job ID for downloads.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"jobkit/internal/document"
	"jobkit/internal/errors"
	"jobkit/internal/types"
)

// Format names accepted by save and download operations
const (
	FormatTxt  = "txt"
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

var supportedFormats = []string{FormatTxt, FormatPDF, FormatDOCX}

var mediaTypes = map[string]string{
	FormatTxt:  "text/plain; charset=utf-8",
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// OutputStore writes rendered documents under a single output directory
// and looks them up again by job ID.
type OutputStore struct {
	dir    string
	logger *errors.Logger
}

// NewOutputStore creates a store rooted at dir
func NewOutputStore(dir string, logger *errors.Logger) *OutputStore {
	return &OutputStore{dir: dir, logger: logger}
}

// Dir returns the store's output directory
func (s *OutputStore) Dir() string {
	return s.dir
}

// NewGenerationJobID returns a timestamp-based job ID for generation runs
func NewGenerationJobID() string {
	return time.Now().Format("20060102_150405")
}

// NewEvaluationJobID returns a millisecond job ID for evaluation runs
func NewEvaluationJobID() string {
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}

// ValidateFormat rejects formats outside txt, pdf and docx. It runs before
// any filesystem lookup so an unknown format never reports "not found".
func ValidateFormat(format string) error {
	for _, f := range supportedFormats {
		if format == f {
			return nil
		}
	}
	return errors.NewValidationError(errors.ErrCodeInvalidFormat,
		fmt.Sprintf("Invalid format: %s (supported: %s)",
			format, strings.Join(supportedFormats, ", ")), nil)
}

// MediaType returns the download content type for a supported format
func MediaType(format string) string {
	return mediaTypes[format]
}

// SupportedFormats lists the formats every document is rendered in
func SupportedFormats() []string {
	out := make([]string, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

var invalidTitleChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// sanitizeTitle makes a job title safe for filenames: runs of anything
// outside [a-zA-Z0-9_-] collapse to a single underscore, capped at 50
// characters.
func sanitizeTitle(title string) string {
	s := invalidTitleChars.ReplaceAllString(title, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		s = "untitled"
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

// SaveGeneration renders a job description in every supported format and
// writes the files as job_description_{title}_{jobID}_{provider}.{ext}.
// It returns the written paths keyed by format.
func (s *OutputStore) SaveGeneration(jd types.JobDescription, jobID, provider string) (map[string]string, error) {
	doc := document.JobDescriptionDocument(jd)
	base := fmt.Sprintf("job_description_%s_%s_%s",
		sanitizeTitle(jd.JobInfo.JobWorkingTitle), jobID, provider)
	return s.writeAll(doc, base)
}

// SaveEvaluation renders a full evaluation report in every supported format
// and writes the files as job_eval_{title}_{jobID}.{ext}.
func (s *OutputStore) SaveEvaluation(report types.EvaluationReport, jobID string) (map[string]string, error) {
	doc := document.EvaluationDocument(report)
	base := fmt.Sprintf("job_eval_%s_%s",
		sanitizeTitle(report.Classification.PositionTitle), jobID)
	return s.writeAll(doc, base)
}

func (s *OutputStore) writeAll(doc document.Document, base string) (map[string]string, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return nil, errors.NewIOError("DIRECTORY_CREATE_FAILED",
			fmt.Sprintf("Cannot create output directory: %s", s.dir), err)
	}

	paths := make(map[string]string, len(supportedFormats))
	for _, format := range supportedFormats {
		path := filepath.Join(s.dir, base+"."+format)
		if err := s.writeFormat(doc, path, format); err != nil {
			return nil, err
		}
		paths[format] = path
	}

	if s.logger != nil {
		s.logger.Info("Documents written", "base", base, "dir", s.dir,
			"formats", strings.Join(supportedFormats, ","))
	}
	return paths, nil
}

func (s *OutputStore) writeFormat(doc document.Document, path, format string) error {
	switch format {
	case FormatTxt:
		if err := os.WriteFile(path, []byte(document.RenderText(doc)), 0600); err != nil {
			return errors.NewIOError("FILE_WRITE_FAILED",
				fmt.Sprintf("Cannot write file: %s", path), err)
		}
		return nil
	case FormatPDF, FormatDOCX:
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return errors.NewIOError("FILE_WRITE_FAILED",
				fmt.Sprintf("Cannot write file: %s", path), err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && s.logger != nil {
				s.logger.Warn("Failed to close file", "path", path, "error", cerr)
			}
		}()
		if format == FormatPDF {
			err = document.RenderPDF(doc, f)
		} else {
			err = document.RenderDOCX(doc, f)
		}
		if err != nil {
			return errors.NewIOError("FILE_WRITE_FAILED",
				fmt.Sprintf("Cannot render %s: %s", format, path), err)
		}
		return nil
	default:
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Invalid format: %s", format), nil)
	}
}

// LookupGeneration resolves a stored job description by provider, job ID
// and format. Format validation happens first; a valid format with no
// matching file reports OUTPUT_NOT_FOUND.
func (s *OutputStore) LookupGeneration(provider, jobID, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	pattern := filepath.Join(s.dir,
		fmt.Sprintf("job_description_*_%s_%s.%s", jobID, provider, format))
	return s.glob(pattern, jobID)
}

// LookupEvaluation resolves a stored evaluation report by job ID and format
func (s *OutputStore) LookupEvaluation(jobID, format string) (string, error) {
	if err := ValidateFormat(format); err != nil {
		return "", err
	}
	pattern := filepath.Join(s.dir, fmt.Sprintf("job_eval_*_%s.%s", jobID, format))
	return s.glob(pattern, jobID)
}

func (s *OutputStore) glob(pattern, jobID string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot search output directory: %s", s.dir), err)
	}
	if len(matches) == 0 {
		return "", errors.NewNotFoundError(errors.ErrCodeOutputNotFound,
			fmt.Sprintf("Output for job %s not found", jobID), nil)
	}
	return matches[0], nil
}
