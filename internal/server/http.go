package server

import (
	"time"

	"jobkit/internal/config"
	jobkitErrors "jobkit/internal/errors"
	"jobkit/internal/store"
	"jobkit/internal/types"
)

// GenerateResponse is the payload returned by the generate endpoint. Each
// provider field carries either the rendered job description text or an
// error substitution when that provider failed.
type GenerateResponse struct {
	MistralOutput string `json:"mistral_output"`
	GeminiOutput  string `json:"gemini_output"`
	JobID         string `json:"job_id"`
}

// ConfigResponse acknowledges an organization context replacement
type ConfigResponse struct {
	Status string           `json:"status"`
	Config types.OrgContext `json:"config"`
}

// UploadResponse is returned by the classify and full-workflow endpoints
type UploadResponse struct {
	JobID  string `json:"job_id"`
	Result any    `json:"result"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Runtime organization context, seeded from config at startup
	OrgStore *OrgStore

	// Generated document persistence and download lookup
	OutputStore *store.OutputStore

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertificateManager *CertificateManager

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *jobkitErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *jobkitErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:      cfg.Host,
		Port:      cfg.Port,
		Version:   cfg.Version,
		AppConfig: appCfg,
		OrgStore: NewOrgStore(types.OrgContext{
			OrganizationName:        appCfg.Org.OrganizationName,
			Industry:                appCfg.Org.Industry,
			Location:                appCfg.Org.Location,
			OrganizationDescription: appCfg.Org.OrganizationDescription,
		}),
		OutputStore:    store.NewOutputStore(appCfg.Output.Dir, logger),
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
