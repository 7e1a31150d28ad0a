package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"jobkit/internal/ai"
	"jobkit/internal/document"
	jobkitErrors "jobkit/internal/errors"
	"jobkit/internal/observability"
	"jobkit/internal/pipeline"
	"jobkit/internal/standards"
	"jobkit/internal/store"
	"jobkit/internal/types"
	"jobkit/internal/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// generationProviders lists the providers the generate endpoint runs
// concurrently. Order matters only for response field mapping.
var generationProviders = []string{"mistral", "gemini"}

// createConfigHandler serves and replaces the in-memory organization context
func (s *Server) createConfigHandler(om *observability.ObservabilityManager) (get, post http.HandlerFunc) {
	get = func(w http.ResponseWriter, r *http.Request) {
		writeJSONResponse(w, s.OrgStore.Get())
	}

	post = func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobkit.api")
		_, span := tracer.Start(ctx, "api.config.update")
		defer span.End()

		var org types.OrgContext
		if err := parseJSONRequest(r, &org); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(org.OrganizationName) == "" {
			writeErrorResponse(w, "Missing organization name",
				"organization_name field is required", http.StatusUnprocessableEntity)
			return
		}

		s.OrgStore.Replace(org)
		span.SetAttributes(attribute.String("org.name", org.OrganizationName))

		writeJSONResponse(w, ConfigResponse{Status: "success", Config: org})
	}

	return get, post
}

// providerResult carries one provider's generation outcome back to the
// collecting goroutine
type providerResult struct {
	provider string
	output   string
	failed   bool
}

// createGenerateHandler runs the generation pipeline against every
// configured provider concurrently and persists both outputs under one job ID
func (s *Server) createGenerateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobkit.api")
		ctx, span := tracer.Start(ctx, "api.generate")
		defer span.End()

		var req types.UserResponses
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		// Required fields gate before any provider call
		required := []struct{ name, value string }{
			{"job_title", req.JobTitle},
			{"department", req.Department},
			{"reports_to", req.ReportsTo},
			{"primary_responsibilities", req.PrimaryResponsibilities},
		}
		for _, f := range required {
			if strings.TrimSpace(f.value) == "" {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Missing required field",
					fmt.Sprintf("%s field is required", f.name), http.StatusUnprocessableEntity)
				return
			}
		}

		org := s.OrgStore.Get()
		jobID := store.NewGenerationJobID()

		span.SetAttributes(
			attribute.String("job.id", jobID),
			attribute.String("job.title", req.JobTitle),
		)

		results := make(chan providerResult, len(generationProviders))
		var wg sync.WaitGroup
		for _, provider := range generationProviders {
			wg.Add(1)
			go func(provider string) {
				defer wg.Done()
				results <- s.runGeneration(ctx, om, provider, jobID, org, req)
			}(provider)
		}
		wg.Wait()
		close(results)

		response := GenerateResponse{JobID: jobID}
		for res := range results {
			switch res.provider {
			case "mistral":
				response.MistralOutput = res.output
			case "gemini":
				response.GeminiOutput = res.output
			}
		}

		writeJSONResponse(w, response)
	}
}

// runGeneration executes the full pipeline for one provider. A failure never
// aborts the request; the error text becomes that provider's output.
func (s *Server) runGeneration(ctx context.Context, om *observability.ObservabilityManager, provider, jobID string, org types.OrgContext, req types.UserResponses) providerResult {
	metrics := om.GetMetrics()

	genConfig := s.AppConfig.GetGenerateConfigFor(provider)
	service, err := ai.NewGenerationService(&genConfig, s.AppConfig.AI.MistralBaseURL, s.Logger)
	if err != nil {
		metrics.RecordBusinessMetric(ctx, "job_description_generated", false, om,
			attribute.String("provider", provider))
		return providerResult{provider: provider, failed: true,
			output: generationErrorText(provider, err)}
	}
	defer func() {
		if closeErr := service.Close(); closeErr != nil {
			s.Logger.Warn("Failed to close AI service", "provider", provider, "error", closeErr)
		}
	}()

	generator := pipeline.NewGenerator(service.Provider, provider, s.AppConfig.AI.Pricing, s.Logger)
	jd, err := generator.Generate(ctx, org, req)
	if err != nil {
		s.Logger.LogError(err, "Generation failed", "provider", provider, "job_id", jobID)
		metrics.RecordBusinessMetric(ctx, "job_description_generated", false, om,
			attribute.String("provider", provider))
		return providerResult{provider: provider, failed: true,
			output: generationErrorText(provider, err)}
	}

	if _, err := s.OutputStore.SaveGeneration(jd, jobID, provider); err != nil {
		s.Logger.LogError(err, "Failed to persist generated documents",
			"provider", provider, "job_id", jobID)
	}

	metrics.RecordBusinessMetric(ctx, "job_description_generated", true, om,
		attribute.String("provider", provider),
		attribute.Int64("tokens.total", jd.Usage.TotalTokens))

	return providerResult{
		provider: provider,
		output:   document.RenderText(document.JobDescriptionDocument(jd)),
	}
}

func generationErrorText(provider string, err error) string {
	return "ERROR generating with " + provider + ":\n\n" + err.Error()
}

// createClassifyHandler accepts a position description upload and returns
// the classification recommendation
func (s *Server) createClassifyHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobkit.api")
		ctx, span := tracer.Start(ctx, "api.classify")
		defer span.End()

		path, cleanup, err := s.saveUpload(r, "file")
		if err != nil {
			span.RecordError(err)
			s.writeUploadError(w, "file", err)
			return
		}
		defer cleanup()

		evaluator, err := s.buildEvaluator()
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to create evaluation services", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		rec, err := evaluator.Classify(ctx, path, pipeline.ClassifyOptions{})
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "position_classified", false, om)
			writeErrorResponse(w, "Failed to classify position", err.Error(), http.StatusInternalServerError)
			return
		}

		jobID := store.NewEvaluationJobID()
		report := types.EvaluationReport{Classification: rec}
		if _, err := s.OutputStore.SaveEvaluation(report, jobID); err != nil {
			s.Logger.LogError(err, "Failed to persist classification report", "job_id", jobID)
		}

		metrics.RecordBusinessMetric(ctx, "position_classified", true, om,
			attribute.String("recommended_level", rec.RecommendedLevel),
			attribute.Int("confidence", rec.Confidence))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("recommended_level", rec.RecommendedLevel),
		)

		writeJSONResponse(w, UploadResponse{JobID: jobID, Result: rec})
	}
}

// createFullWorkflowHandler runs compare, gauge and classify over an
// old/new document pair
func (s *Server) createFullWorkflowHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("jobkit.api")
		ctx, span := tracer.Start(ctx, "api.full_workflow")
		defer span.End()

		oldPath, oldCleanup, err := s.saveUpload(r, "old_file")
		if err != nil {
			span.RecordError(err)
			s.writeUploadError(w, "old_file", err)
			return
		}
		defer oldCleanup()

		newPath, newCleanup, err := s.saveUpload(r, "new_file")
		if err != nil {
			span.RecordError(err)
			s.writeUploadError(w, "new_file", err)
			return
		}
		defer newCleanup()

		evaluator, err := s.buildEvaluator()
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to create evaluation services", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		report, err := evaluator.FullWorkflow(ctx, oldPath, newPath)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "workflow_completed", false, om)
			writeErrorResponse(w, "Failed to run evaluation workflow", err.Error(), http.StatusInternalServerError)
			return
		}

		jobID := store.NewEvaluationJobID()
		if _, err := s.OutputStore.SaveEvaluation(report, jobID); err != nil {
			s.Logger.LogError(err, "Failed to persist evaluation report", "job_id", jobID)
		}

		metrics.RecordBusinessMetric(ctx, "workflow_completed", true, om,
			attribute.String("recommended_level", report.Classification.RecommendedLevel),
			attribute.Bool("should_reevaluate", report.Gauge.ShouldReevaluate))
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("recommended_level", report.Classification.RecommendedLevel),
		)

		writeJSONResponse(w, UploadResponse{JobID: jobID, Result: report})
	}
}

// createGenerationDownloadHandler serves generated job description files
func (s *Server) createGenerationDownloadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provider := r.PathValue("provider")
		jobID := r.PathValue("jobID")
		format := r.PathValue("format")

		// Format gate first, then existence
		if err := store.ValidateFormat(format); err != nil {
			writeErrorResponse(w, "Invalid format", err.Error(), http.StatusBadRequest)
			return
		}

		path, err := s.OutputStore.LookupGeneration(provider, jobID, format)
		if err != nil {
			writeErrorResponse(w, "Output not found", err.Error(), http.StatusNotFound)
			return
		}

		s.serveDownload(w, r, om, path, format)
	}
}

// createEvaluationDownloadHandler serves saved evaluation reports
func (s *Server) createEvaluationDownloadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := r.PathValue("jobID")
		format := r.PathValue("format")

		if err := store.ValidateFormat(format); err != nil {
			writeErrorResponse(w, "Invalid format", err.Error(), http.StatusBadRequest)
			return
		}

		path, err := s.OutputStore.LookupEvaluation(jobID, format)
		if err != nil {
			writeErrorResponse(w, "Output not found", err.Error(), http.StatusNotFound)
			return
		}

		s.serveDownload(w, r, om, path, format)
	}
}

// serveDownload streams a stored file as an attachment
func (s *Server) serveDownload(w http.ResponseWriter, r *http.Request, om *observability.ObservabilityManager, path, format string) {
	w.Header().Set("Content-Type", store.MediaType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)

	metrics := om.GetMetrics()
	metrics.RecordBusinessMetric(r.Context(), "download_served", true, om,
		attribute.String("format", format))
}

// buildEvaluator wires the three evaluation AI services and the
// classification standards into a pipeline evaluator
func (s *Server) buildEvaluator() (*pipeline.Evaluator, error) {
	std, err := standards.Load(s.AppConfig.Output.StandardsFile)
	if err != nil {
		return nil, err
	}

	compareCfg := s.AppConfig.GetCompareConfig()
	compareSvc, err := ai.NewService(&compareCfg, "compare", s.AppConfig.AI.MistralBaseURL, s.Logger)
	if err != nil {
		return nil, err
	}

	gaugeCfg := s.AppConfig.GetGaugeConfig()
	gaugeSvc, err := ai.NewService(&gaugeCfg, "gauge", s.AppConfig.AI.MistralBaseURL, s.Logger)
	if err != nil {
		return nil, err
	}

	classifyCfg := s.AppConfig.GetClassifyConfig()
	classifySvc, err := ai.NewService(&classifyCfg, "classify", s.AppConfig.AI.MistralBaseURL, s.Logger)
	if err != nil {
		return nil, err
	}

	return pipeline.NewEvaluator(
		compareSvc.Provider, gaugeSvc.Provider, classifySvc.Provider,
		std, s.Logger,
	), nil
}

// saveUpload stores one multipart file part in a temp file and returns its
// path with a cleanup function. The extension gate runs before any write.
func (s *Server) saveUpload(r *http.Request, field string) (string, func(), error) {
	noop := func() {}

	file, header, err := r.FormFile(field)
	if err != nil {
		return "", noop, jobkitErrors.NewValidationError(
			jobkitErrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s part is required", field),
			err,
		)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.Logger.Warn("Failed to close upload", "field", field, "error", closeErr)
		}
	}()

	if !utils.IsDocumentFile(header.Filename) {
		return "", noop, jobkitErrors.NewValidationError(
			jobkitErrors.ErrCodeUnsupportedFile,
			fmt.Sprintf("Unsupported file type: %s (expected .pdf or .docx)",
				utils.GetFileExtension(header.Filename)),
			nil,
		)
	}

	tmp, err := os.CreateTemp("", "jobkit_upload_*"+utils.GetFileExtension(header.Filename))
	if err != nil {
		return "", noop, jobkitErrors.NewIOError(
			jobkitErrors.ErrCodeFileNotReadable,
			"Failed to create temporary upload file",
			err,
		)
	}

	cleanup := func() {
		if removeErr := os.Remove(tmp.Name()); removeErr != nil {
			s.Logger.Warn("Failed to remove temporary upload", "path", tmp.Name(), "error", removeErr)
		}
	}

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", noop, jobkitErrors.NewIOError(
			jobkitErrors.ErrCodeFileNotReadable,
			"Failed to store uploaded file",
			err,
		)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", noop, jobkitErrors.NewIOError(
			jobkitErrors.ErrCodeFileNotReadable,
			"Failed to store uploaded file",
			err,
		)
	}

	return tmp.Name(), cleanup, nil
}

// writeUploadError maps upload validation failures onto HTTP statuses:
// missing part → 422, unsupported extension → 400, everything else → 500
func (s *Server) writeUploadError(w http.ResponseWriter, field string, err error) {
	var appErr *jobkitErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case jobkitErrors.ErrCodeInvalidRequest:
			writeErrorResponse(w, "Missing file", appErr.Message, http.StatusUnprocessableEntity)
			return
		case jobkitErrors.ErrCodeUnsupportedFile:
			writeErrorResponse(w, "Unsupported file type", appErr.Message, http.StatusBadRequest)
			return
		}
	}
	writeErrorResponse(w, fmt.Sprintf("Failed to process %s upload", field), err.Error(), http.StatusInternalServerError)
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// requestIDMiddleware tags every request with a UUID for log correlation
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		s.Logger.Debug("Request received",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"client_ip", getClientIP(r))

		next(w, r)
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// writeJSONResponse encodes a success payload
func writeJSONResponse(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
