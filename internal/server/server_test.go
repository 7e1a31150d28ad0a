package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobkit/internal/config"
	jobkitErrors "jobkit/internal/errors"
	"jobkit/internal/observability"
	"jobkit/internal/store"
	"jobkit/internal/types"
)

func newTestObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(
		observability.ObservabilityConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("NewObservabilityManager failed: %v", err)
	}
	return om
}

func newTestServer(t *testing.T, apiKeys ...string) *Server {
	t.Helper()
	logger := jobkitErrors.NewLogger(slog.LevelError)

	cfg := &config.Config{}
	cfg.Org = config.OrgConfig{
		OrganizationName: "City of Harborview",
		Industry:         "Municipal Government",
		Location:         "Harborview",
	}
	cfg.Output.Dir = t.TempDir()

	keyMap := make(map[string]bool)
	for _, key := range apiKeys {
		keyMap[key] = true
	}

	return &Server{
		Host:      "127.0.0.1",
		Port:      "0",
		Version:   "test",
		AppConfig: cfg,
		OrgStore: NewOrgStore(types.OrgContext{
			OrganizationName: cfg.Org.OrganizationName,
			Industry:         cfg.Org.Industry,
			Location:         cfg.Org.Location,
		}),
		OutputStore:    store.NewOutputStore(cfg.Output.Dir, logger),
		APIKeys:        keyMap,
		MaxRequestSize: 1 << 20,
		Logger:         logger,
	}
}

func jsonRequest(method, target string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestConfigEndpointRoundTrip(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	// Seeded defaults come back on GET
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /api/config status = %d, want 200", rr.Code)
	}
	var got types.OrgContext
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode config response: %v", err)
	}
	if got.OrganizationName != "City of Harborview" {
		t.Errorf("organization_name = %q, want seeded default", got.OrganizationName)
	}

	// POST replaces the whole object
	replacement := types.OrgContext{
		OrganizationName: "Port Authority",
		Industry:         "Transportation",
	}
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/config", replacement))
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /api/config status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	var ack ConfigResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &ack); err != nil {
		t.Fatalf("failed to decode config ack: %v", err)
	}
	if ack.Status != "success" {
		t.Errorf("status = %q, want success", ack.Status)
	}
	if ack.Config.OrganizationName != "Port Authority" {
		t.Errorf("ack config = %+v, want the posted object", ack.Config)
	}

	// The old location was not merged in
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode config response: %v", err)
	}
	if got.Location != "" {
		t.Errorf("location = %q, want empty after full replace", got.Location)
	}
}

func TestConfigUpdateRequiresOrganizationName(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/config", types.OrgContext{}))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty config status = %d, want 422", rr.Code)
	}
}

func TestGenerateValidatesBeforeProviderCalls(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	tests := []struct {
		name string
		body types.UserResponses
	}{
		{"missing job_title", types.UserResponses{
			Department: "Finance", ReportsTo: "Director", PrimaryResponsibilities: "Budgets"}},
		{"missing department", types.UserResponses{
			JobTitle: "Analyst", ReportsTo: "Director", PrimaryResponsibilities: "Budgets"}},
		{"missing reports_to", types.UserResponses{
			JobTitle: "Analyst", Department: "Finance", PrimaryResponsibilities: "Budgets"}},
		{"missing primary_responsibilities", types.UserResponses{
			JobTitle: "Analyst", Department: "Finance", ReportsTo: "Director"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, jsonRequest(http.MethodPost, "/api/generate", tt.body))
			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", rr.Code)
			}
		})
	}
}

func TestGenerateRejectsWrongContentType(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader("job_title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestDownloadFormatGatePrecedesLookup(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	// Unknown format on an equally unknown job must still be a 400
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/download/mistral/20240101_120000/xlsx", nil))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("unknown format status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Invalid format") {
		t.Errorf("body = %q, want an invalid format message", rr.Body.String())
	}

	// Valid format but missing job is a 404
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/download/mistral/20240101_120000/txt", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("missing job status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "not found") {
		t.Errorf("body = %q, want a not found message", rr.Body.String())
	}
}

func TestDownloadServesSavedGeneration(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	jd := types.JobDescription{}
	jd.JobInfo.JobWorkingTitle = "Budget Analyst"
	jd.OverallPurpose.PurposeText = "Supports the annual budget cycle."
	jobID := store.NewGenerationJobID()
	if _, err := s.OutputStore.SaveGeneration(jd, jobID, "mistral"); err != nil {
		t.Fatalf("SaveGeneration failed: %v", err)
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/download/mistral/"+jobID+"/txt", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("content type = %q, want text/plain", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("content disposition = %q, want attachment", cd)
	}
	if !strings.Contains(rr.Body.String(), "BUDGET ANALYST") {
		t.Errorf("body does not contain the rendered title")
	}
}

func TestEvaluationDownloadNotFound(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet,
		"/api/download/1700000000000/txt", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestClassifyMissingFilePart(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/classify", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rr.Code)
	}
}

func TestClassifyRejectsUnsupportedExtension(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "position.txt")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte("plain text")); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/classify", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Unsupported file type") {
		t.Errorf("body = %q, want an unsupported file type message", rr.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t, "secret-key-12345")
	mux := s.setupRoutes(newTestObservability(t))

	// Missing key
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rr.Code)
	}

	// Invalid key
	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	req.Header.Set("X-API-Key", "wrong")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("invalid key status = %d, want 401", rr.Code)
	}

	// Valid key via header
	req = httptest.NewRequest(http.MethodGet, "/api/config", nil)
	req.Header.Set("X-API-Key", "secret-key-12345")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rr.Code)
	}

	// Valid key via bearer token
	req = httptest.NewRequest(http.MethodGet, "/api/config", nil)
	req.Header.Set("Authorization", "Bearer secret-key-12345")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("bearer token status = %d, want 200", rr.Code)
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	s := newTestServer(t)
	mux := s.setupRoutes(newTestObservability(t))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/config", nil))
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "****"},
		{"12345678", "****"},
		{"123456789abcdef", "12345678****"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestOrgStoreConcurrentAccess(t *testing.T) {
	s := NewOrgStore(types.OrgContext{OrganizationName: "Initial"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			s.Replace(types.OrgContext{OrganizationName: "Replaced"})
		}
	}()
	for range 100 {
		_ = s.Get()
	}
	<-done

	if got := s.Get().OrganizationName; got != "Replaced" {
		t.Errorf("OrganizationName = %q, want Replaced", got)
	}
}
