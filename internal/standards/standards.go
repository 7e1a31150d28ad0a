// Package standards loads and formats the EC classification standards used
// by the gauge and classify operations.
package standards

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jobkit/internal/errors"
)

// MinLevel and MaxLevel bound the EC classification scale.
const (
	MinLevel = 1
	MaxLevel = 17
)

// CategoryKeys lists the evaluation categories every level carries, in
// presentation order.
var CategoryKeys = []string{
	"accountabilities",
	"knowledge_experience",
	"decision_making",
	"customer_relationship",
	"leadership",
	"project_management",
}

// Level holds the standard for a single classification level
type Level struct {
	Level      int                 `json:"level"`
	Title      string              `json:"title"`
	GradeCode  string              `json:"grade_code"`
	Categories map[string][]string `json:"categories"`
}

// Standards holds the full classification standards document
type Standards struct {
	ClassificationLevels map[string]Level `json:"classification_levels"`
}

// Load reads the standards JSON from path. A missing file is a typed error
// pointing the operator at the extract-standards command.
func Load(path string) (*Standards, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(
				errors.ErrCodeStandardsMissing,
				fmt.Sprintf("classification standards not found at %s; run 'jobkit extract-standards' to build them", path),
				err,
			).WithContext("path", path)
		}
		return nil, errors.NewIOError(
			errors.ErrCodeFileNotReadable,
			fmt.Sprintf("failed to read classification standards from %s", path),
			err,
		).WithContext("path", path)
	}

	var s Standards
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.NewIOError(
			errors.ErrCodeInvalidFormat,
			fmt.Sprintf("classification standards at %s are not valid JSON", path),
			err,
		).WithContext("path", path)
	}

	if len(s.ClassificationLevels) == 0 {
		return nil, errors.NewIOError(
			errors.ErrCodeInvalidFormat,
			fmt.Sprintf("classification standards at %s contain no levels", path),
			nil,
		).WithContext("path", path)
	}

	return &s, nil
}

// Get returns the standard for a formatted level code such as "EC-06"
func (s *Standards) Get(code string) (Level, bool) {
	level, ok := s.ClassificationLevels[code]
	return level, ok
}

// ParseLevel extracts the numeric level from a code like "EC-10" or "EC10"
func ParseLevel(code string) (int, error) {
	m := levelCodeRe.FindStringSubmatch(strings.TrimSpace(code))
	if m == nil {
		return 0, fmt.Errorf("unrecognized classification level: %q", code)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("unrecognized classification level: %q", code)
	}
	if n < MinLevel || n > MaxLevel {
		return 0, fmt.Errorf("classification level out of range: %d", n)
	}
	return n, nil
}

// FormatLevel renders a numeric level as a zero-padded code, e.g. 6 → "EC-06"
func FormatLevel(n int) string {
	return fmt.Sprintf("EC-%02d", n)
}

// UnknownLevel is returned when no level code can be derived from a filename.
const UnknownLevel = "EC-Unknown"

var (
	levelCodeRe     = regexp.MustCompile(`(?i)^EC[\s-]?(\d{1,2})$`)
	levelFilenameRe = regexp.MustCompile(`(?i)EC[\s-]?(\d{1,2})`)
)

// LevelFromFilename derives the current classification level from a document
// filename, e.g. "Analyst EC-06 2023.docx" → "EC-06". Returns UnknownLevel
// when the filename carries no level marker.
func LevelFromFilename(name string) string {
	m := levelFilenameRe.FindStringSubmatch(name)
	if m == nil {
		return UnknownLevel
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < MinLevel || n > MaxLevel {
		return UnknownLevel
	}
	return FormatLevel(n)
}

// RelevantContext formats the standards for the current level and its
// immediate neighbours, clamped to the EC scale, for the gauge prompt.
// An unknown current level falls back to the full truncated context.
func (s *Standards) RelevantContext(current string) string {
	n, err := ParseLevel(current)
	if err != nil {
		return s.AllLevelsContext()
	}

	var b strings.Builder
	for level := max(n-1, MinLevel); level <= min(n+1, MaxLevel); level++ {
		code := FormatLevel(level)
		std, ok := s.Get(code)
		if !ok {
			continue
		}
		writeLevel(&b, code, std, 0, 0)
	}
	return b.String()
}

// AllLevelsContext formats every level for the classifier prompt. To keep
// the context within model limits, only the first two items per category are
// included and each item is truncated to 150 characters.
func (s *Standards) AllLevelsContext() string {
	codes := make([]string, 0, len(s.ClassificationLevels))
	for code := range s.ClassificationLevels {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	for _, code := range codes {
		writeLevel(&b, code, s.ClassificationLevels[code], 2, 150)
	}
	return b.String()
}

// writeLevel appends one level's standard. maxItems and maxLen of zero mean
// no truncation.
func writeLevel(b *strings.Builder, code string, std Level, maxItems, maxLen int) {
	fmt.Fprintf(b, "%s: %s\n", code, std.Title)
	for _, category := range CategoryKeys {
		items, ok := std.Categories[category]
		if !ok || len(items) == 0 {
			continue
		}
		if maxItems > 0 && len(items) > maxItems {
			items = items[:maxItems]
		}
		fmt.Fprintf(b, "  %s:\n", category)
		for _, item := range items {
			if maxLen > 0 && len(item) > maxLen {
				item = item[:maxLen] + "..."
			}
			fmt.Fprintf(b, "    - %s\n", item)
		}
	}
	b.WriteString("\n")
}
