// Package formatters turns typed pipeline results into CLI output. The text
// and markdown formatters render through the shared document IR; json is
// generic.
package formatters

import (
	"encoding/json"
	"fmt"

	"jobkit/internal/document"
	"jobkit/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	for _, dataType := range documentTypes {
		registry.RegisterFormatter("text", dataType, &documentFormatter{
			dataType: dataType,
			render:   document.RenderText,
		})
		registry.RegisterFormatter("markdown", dataType, &documentFormatter{
			dataType: dataType,
			render:   document.RenderMarkdown,
		})
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

var documentTypes = []string{
	"JobDescription",
	"ComparisonResult",
	"RevaluationRecommendation",
	"ClassificationRecommendation",
	"EvaluationReport",
}

func getDataType(data any) string {
	switch data.(type) {
	case types.JobDescription:
		return "JobDescription"
	case types.ComparisonResult:
		return "ComparisonResult"
	case types.RevaluationRecommendation:
		return "RevaluationRecommendation"
	case types.ClassificationRecommendation:
		return "ClassificationRecommendation"
	case types.EvaluationReport:
		return "EvaluationReport"
	default:
		return "any"
	}
}

// buildDocument constructs the block IR for any renderable result type
func buildDocument(data any) (document.Document, error) {
	switch v := data.(type) {
	case types.JobDescription:
		return document.JobDescriptionDocument(v), nil
	case types.ComparisonResult:
		return document.ComparisonDocument(v), nil
	case types.RevaluationRecommendation:
		return document.GaugeDocument(v), nil
	case types.ClassificationRecommendation:
		return document.ClassificationDocument(v), nil
	case types.EvaluationReport:
		return document.EvaluationDocument(v), nil
	default:
		return document.Document{}, fmt.Errorf("no document builder for %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// documentFormatter renders any typed result through the document IR
type documentFormatter struct {
	dataType string
	render   func(document.Document) string
}

func (df *documentFormatter) Format(data any) (string, error) {
	doc, err := buildDocument(data)
	if err != nil {
		return "", err
	}
	return df.render(doc), nil
}

func (df *documentFormatter) SupportedType() string {
	return df.dataType
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
