package standards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobkit/internal/errors"
)

func testStandards() *Standards {
	levels := make(map[string]Level)
	for n := MinLevel; n <= MaxLevel; n++ {
		code := FormatLevel(n)
		levels[code] = Level{
			Level:     n,
			Title:     "Title " + code,
			GradeCode: code,
			Categories: map[string][]string{
				"accountabilities":     {"first accountability", "second accountability", "third accountability"},
				"knowledge_experience": {strings.Repeat("k", 200)},
				"decision_making":      {"decides things"},
			},
		}
	}
	return &Standards{ClassificationLevels: levels}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"standard code", "EC-10", 10, false},
		{"zero padded", "EC-06", 6, false},
		{"no separator", "EC10", 10, false},
		{"space separator", "EC 7", 7, false},
		{"lowercase", "ec-03", 3, false},
		{"whitespace around", "  EC-12  ", 12, false},
		{"out of range high", "EC-18", 0, true},
		{"out of range low", "EC-00", 0, true},
		{"unknown marker", "EC-Unknown", 0, true},
		{"empty", "", 0, true},
		{"garbage", "Grade 9", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseLevel(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{1, "EC-01"},
		{6, "EC-06"},
		{10, "EC-10"},
		{17, "EC-17"},
	}

	for _, tt := range tests {
		if got := FormatLevel(tt.input); got != tt.want {
			t.Errorf("FormatLevel(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevelFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"hyphenated", "Senior Analyst EC-06 2023.docx", "EC-06"},
		{"space separated", "Analyst EC 7 final.pdf", "EC-07"},
		{"no separator", "analyst_EC12_new.docx", "EC-12"},
		{"single digit", "EC-4 posting.txt", "EC-04"},
		{"lowercase", "manager ec-09.docx", "EC-09"},
		{"no marker", "job_description_final.docx", UnknownLevel},
		{"out of range", "EC-25 something.pdf", UnknownLevel},
		{"empty", "", UnknownLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFromFilename(tt.filename); got != tt.want {
				t.Errorf("LevelFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing standards file")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeStandardsMissing {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeStandardsMissing)
	}
	if !strings.Contains(appErr.Message, "extract-standards") {
		t.Errorf("error message should point at extract-standards, got %q", appErr.Message)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standards.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("error code = %q, want %q", appErr.Code, errors.ErrCodeInvalidFormat)
	}
}

func TestLoadEmptyStandards(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standards.json")
	if err := os.WriteFile(path, []byte(`{"classification_levels":{}}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for standards without levels")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "standards.json")
	content := `{
		"classification_levels": {
			"EC-06": {
				"level": 6,
				"title": "Senior Analyst",
				"grade_code": "EC-06",
				"categories": {
					"accountabilities": ["leads analysis"],
					"leadership": ["mentors juniors"]
				}
			}
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	level, ok := s.Get("EC-06")
	if !ok {
		t.Fatal("EC-06 not found")
	}
	if level.Title != "Senior Analyst" {
		t.Errorf("title = %q, want %q", level.Title, "Senior Analyst")
	}
	if len(level.Categories["accountabilities"]) != 1 {
		t.Errorf("accountabilities = %v", level.Categories["accountabilities"])
	}
}

func TestRelevantContext(t *testing.T) {
	s := testStandards()

	t.Run("mid level includes neighbours", func(t *testing.T) {
		ctx := s.RelevantContext("EC-06")
		for _, code := range []string{"EC-05", "EC-06", "EC-07"} {
			if !strings.Contains(ctx, code+":") {
				t.Errorf("context missing %s", code)
			}
		}
		if strings.Contains(ctx, "EC-04:") || strings.Contains(ctx, "EC-08:") {
			t.Error("context should only cover current level and immediate neighbours")
		}
	})

	t.Run("clamped at bottom", func(t *testing.T) {
		ctx := s.RelevantContext("EC-01")
		if !strings.Contains(ctx, "EC-01:") || !strings.Contains(ctx, "EC-02:") {
			t.Error("context should cover EC-01 and EC-02")
		}
		if strings.Contains(ctx, "EC-00") {
			t.Error("context must not go below the scale")
		}
	})

	t.Run("clamped at top", func(t *testing.T) {
		ctx := s.RelevantContext("EC-17")
		if !strings.Contains(ctx, "EC-16:") || !strings.Contains(ctx, "EC-17:") {
			t.Error("context should cover EC-16 and EC-17")
		}
		if strings.Contains(ctx, "EC-18") {
			t.Error("context must not go above the scale")
		}
	})

	t.Run("unknown level falls back to all levels", func(t *testing.T) {
		ctx := s.RelevantContext(UnknownLevel)
		for n := MinLevel; n <= MaxLevel; n++ {
			if !strings.Contains(ctx, FormatLevel(n)+":") {
				t.Errorf("fallback context missing %s", FormatLevel(n))
			}
		}
	})

	t.Run("full items when level known", func(t *testing.T) {
		ctx := s.RelevantContext("EC-06")
		if !strings.Contains(ctx, "third accountability") {
			t.Error("gauge context should carry full category items")
		}
	})
}

func TestAllLevelsContext(t *testing.T) {
	s := testStandards()
	ctx := s.AllLevelsContext()

	for n := MinLevel; n <= MaxLevel; n++ {
		if !strings.Contains(ctx, FormatLevel(n)+":") {
			t.Errorf("context missing %s", FormatLevel(n))
		}
	}

	// Only the first two items per category survive
	if strings.Contains(ctx, "third accountability") {
		t.Error("classifier context should truncate to two items per category")
	}

	// Long items are cut to 150 characters with an ellipsis
	if strings.Contains(ctx, strings.Repeat("k", 151)) {
		t.Error("classifier context should truncate long items")
	}
	if !strings.Contains(ctx, strings.Repeat("k", 150)+"...") {
		t.Error("truncated items should end with an ellipsis")
	}
}
