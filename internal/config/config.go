package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (JOBKIT_AI_GEMINIAPIKEY, GEMINI_API_KEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Org           OrgConfig           `mapstructure:"org"`
	Output        OutputConfig        `mapstructure:"output"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global/fallback configuration
	Provider         string        `mapstructure:"provider"`
	GeminiAPIKey     string        `mapstructure:"geminiApiKey"`
	GeminiModel      string        `mapstructure:"geminiModel"`
	MistralAPIKey    string        `mapstructure:"mistralApiKey"`
	MistralModel     string        `mapstructure:"mistralModel"`
	MistralBaseURL   string        `mapstructure:"mistralBaseUrl"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	Pricing          PricingConfig `mapstructure:"pricing"`

	// Operation-specific configurations
	Generate GenerateAIConfig  `mapstructure:"generate"`
	Compare  OperationAIConfig `mapstructure:"compare"`
	Gauge    OperationAIConfig `mapstructure:"gauge"`
	Classify OperationAIConfig `mapstructure:"classify"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for specific operations
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptOverride       `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// GenerateAIConfig extends OperationAIConfig with per-stage sampling
// temperatures for the job description pipeline.
type GenerateAIConfig struct {
	OperationAIConfig `mapstructure:",squash"`

	// StageTemperatures maps pipeline stage names (job_info,
	// responsibilities, people_management, scope, requirements,
	// working_conditions) to sampling temperatures.
	StageTemperatures map[string]float32 `mapstructure:"stageTemperatures"`
}

// StageTemperature returns the sampling temperature for a pipeline stage,
// falling back to the operation temperature when the stage has no entry.
func (g GenerateAIConfig) StageTemperature(stage string) float32 {
	if t, ok := g.StageTemperatures[stage]; ok {
		return t
	}
	if g.Temperature != nil {
		return *g.Temperature
	}
	return 0.3
}

// PromptOverride holds custom system/user prompt overrides for one operation.
// Inline content takes precedence over file content; files are loaded once
// at configuration time.
type PromptOverride struct {
	System     string `mapstructure:"system"`
	SystemFile string `mapstructure:"systemFile"`
	User       string `mapstructure:"user"`
	UserFile   string `mapstructure:"userFile"`
}

// PricingConfig holds per-provider token pricing used for cost reporting
type PricingConfig struct {
	Gemini       ModelPricing `mapstructure:"gemini"`
	Mistral      ModelPricing `mapstructure:"mistral"`
	USDToCADRate float64      `mapstructure:"usdToCadRate"`
}

// ModelPricing holds USD prices per one million tokens
type ModelPricing struct {
	InputPerMillionUSD  float64 `mapstructure:"inputPerMillionUsd"`
	OutputPerMillionUSD float64 `mapstructure:"outputPerMillionUsd"`
}

// ForProvider returns the pricing entry for a provider name
func (p PricingConfig) ForProvider(provider string) ModelPricing {
	switch provider {
	case "gemini":
		return p.Gemini
	default:
		return p.Mistral
	}
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// MaxRequestSize limits JSON and multipart request bodies (bytes)
	MaxRequestSize int64 `mapstructure:"maxRequestSize"`

	// TLS Configuration
	TLS TLSConfig `mapstructure:"tls"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
}

// OrgConfig holds organizational context defaults used by the job
// description pipeline. The HTTP config endpoint can override these at
// runtime; overrides are held in memory only and never written back.
type OrgConfig struct {
	OrganizationName        string `mapstructure:"organizationName"`
	Industry                string `mapstructure:"industry"`
	Location                string `mapstructure:"location"`
	OrganizationDescription string `mapstructure:"organizationDescription"`
}

// OutputConfig holds output directory and data file configuration
type OutputConfig struct {
	Dir           string `mapstructure:"dir"`           // Directory for generated documents
	StandardsFile string `mapstructure:"standardsFile"` // Classification standards JSON path
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool                `mapstructure:"enabled"`
	ServiceName     string              `mapstructure:"serviceName"`
	ServiceVersion  string              `mapstructure:"serviceVersion"`
	ServiceInstance string              `mapstructure:"serviceInstance"`
	ConsoleOutput   bool                `mapstructure:"consoleOutput"`
	SampleRate      float64             `mapstructure:"sampleRate"`
	Tracing         TracingConfig       `mapstructure:"tracing"`
	Metrics         MetricsConfig       `mapstructure:"metrics"`
	CustomMetrics   CustomMetricsConfig `mapstructure:"customMetrics"`
	Console         ConsoleConfig       `mapstructure:"console"`
	Prometheus      PrometheusConfig    `mapstructure:"prometheus"`
	OTLP            OTLPConfig          `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig   `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// CustomMetricsConfig holds fine-grained custom metrics configuration
type CustomMetricsConfig struct {
	AIOperations    AIOperationsMetricsConfig   `mapstructure:"aiOperations"`
	BusinessMetrics BusinessMetricsConfig       `mapstructure:"businessMetrics"`
	Infrastructure  InfrastructureMetricsConfig `mapstructure:"infrastructure"`
}

// AIOperationsMetricsConfig holds AI operation metrics configuration
type AIOperationsMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackDuration   bool `mapstructure:"trackDuration"`
	TrackTokenUsage bool `mapstructure:"trackTokenUsage"`
	TrackModelInfo  bool `mapstructure:"trackModelInfo"`
}

// BusinessMetricsConfig holds business metrics configuration
type BusinessMetricsConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	TrackSuccessRates bool `mapstructure:"trackSuccessRates"`
	TrackContentSizes bool `mapstructure:"trackContentSizes"`
}

// InfrastructureMetricsConfig holds infrastructure metrics configuration
type InfrastructureMetricsConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	TrackRateLimits bool `mapstructure:"trackRateLimits"`
	TrackCertExpiry bool `mapstructure:"trackCertExpiry"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()

	// Set default values
	setDefaults(v)
	log.Println("[CONFIG] Applied default configuration values")

	// Set up environment variable handling
	v.SetEnvPrefix("JOBKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	log.Println("[CONFIG] Configured environment variable handling with prefix 'JOBKIT'")

	// Set up config file handling
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/jobkit/")
	v.AddConfigPath("$HOME/.jobkit")
	v.AddConfigPath(".")
	log.Println("[CONFIG] Configured config file search paths: /etc/jobkit/, $HOME/.jobkit, .")

	// Read the config file
	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Successfully loaded config file: %s", configFileUsed)
	}

	// Unmarshal the configuration into the Config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	log.Println("[CONFIG] Successfully unmarshaled configuration")

	// Apply environment fallbacks (legacy provider key variables, derived defaults)
	config.applyFallbacks()
	log.Println("[CONFIG] Applied configuration fallbacks and environment variable overrides")

	// Log configuration sources summary
	config.logConfigurationSources(configFileUsed)

	// Validate prompt files before attempting to load them
	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	// Load custom prompts from external files
	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "mistral")
	v.SetDefault("ai.geminiApiKey", "")
	v.SetDefault("ai.geminiModel", "gemini-2.0-flash")
	v.SetDefault("ai.mistralApiKey", "")
	v.SetDefault("ai.mistralModel", "mistral-medium-latest")
	v.SetDefault("ai.mistralBaseUrl", "https://api.mistral.ai/v1")
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.useSystemPrompts", true)

	// Pricing defaults (USD per one million tokens)
	v.SetDefault("ai.pricing.mistral.inputPerMillionUsd", 0.10)
	v.SetDefault("ai.pricing.mistral.outputPerMillionUsd", 0.80)
	v.SetDefault("ai.pricing.gemini.inputPerMillionUsd", 0.30)
	v.SetDefault("ai.pricing.gemini.outputPerMillionUsd", 2.50)
	v.SetDefault("ai.pricing.usdToCadRate", 1.40)

	// AI Configuration - Generate operation defaults
	v.SetDefault("ai.generate.provider", "")
	v.SetDefault("ai.generate.model", "")
	v.SetDefault("ai.generate.timeout", 90*time.Second) // Six sequential stages
	v.SetDefault("ai.generate.apiKey", "")
	v.SetDefault("ai.generate.maxRetries", 3)
	v.SetDefault("ai.generate.useSystemPrompts", true)
	v.SetDefault("ai.generate.stageTemperatures", map[string]float64{
		"job_info":           0.3,
		"responsibilities":   0.5,
		"people_management":  0.3,
		"scope":              0.6,
		"requirements":       0.4,
		"working_conditions": 0.3,
	})

	// AI Configuration - Compare operation defaults
	v.SetDefault("ai.compare.provider", "")
	v.SetDefault("ai.compare.model", "")
	v.SetDefault("ai.compare.timeout", 90*time.Second)
	v.SetDefault("ai.compare.apiKey", "")
	v.SetDefault("ai.compare.maxRetries", 3)
	v.SetDefault("ai.compare.temperature", 0.2) // Low temperature for factual comparison
	v.SetDefault("ai.compare.useSystemPrompts", true)

	// AI Configuration - Gauge operation defaults
	v.SetDefault("ai.gauge.provider", "")
	v.SetDefault("ai.gauge.model", "")
	v.SetDefault("ai.gauge.timeout", 90*time.Second)
	v.SetDefault("ai.gauge.apiKey", "")
	v.SetDefault("ai.gauge.maxRetries", 3)
	v.SetDefault("ai.gauge.temperature", 0.2)
	v.SetDefault("ai.gauge.useSystemPrompts", true)

	// AI Configuration - Classify operation defaults
	v.SetDefault("ai.classify.provider", "")
	v.SetDefault("ai.classify.model", "")
	v.SetDefault("ai.classify.timeout", 120*time.Second) // Full standards context is large
	v.SetDefault("ai.classify.apiKey", "")
	v.SetDefault("ai.classify.maxRetries", 3)
	v.SetDefault("ai.classify.temperature", 0.1) // Very low temperature for consistent rulings
	v.SetDefault("ai.classify.useSystemPrompts", true)

	// Circuit Breaker Configuration defaults for all operations
	for _, op := range []string{"generate", "compare", "gauge", "classify"} {
		v.SetDefault("ai."+op+".circuitBreaker.enabled", true)
		v.SetDefault("ai."+op+".circuitBreaker.maxRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.interval", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.timeout", 60*time.Second)
		v.SetDefault("ai."+op+".circuitBreaker.minRequests", 3)
		v.SetDefault("ai."+op+".circuitBreaker.failureThreshold", 0.6)
	}

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxRequestSize", 10*1024*1024) // 10MB, document uploads
	// TLS Configuration defaults
	v.SetDefault("server.tls.mode", "disabled") // disabled, server, mutual
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.cipherSuites", []string{})    // Use Go defaults
	v.SetDefault("server.tls.clientAuthPolicy", "require") // require, request, verify
	v.SetDefault("server.tls.insecureSkipVerify", false)
	v.SetDefault("server.tls.serverName", "")

	// Auto-reload configuration defaults
	v.SetDefault("server.tls.autoReload.enabled", true)
	v.SetDefault("server.tls.autoReload.checkInterval", 30*time.Second)
	v.SetDefault("server.tls.autoReload.preemptiveRenewal", 72*time.Hour)
	v.SetDefault("server.tls.autoReload.maxRetries", 3)
	v.SetDefault("server.tls.autoReload.retryDelay", 10*time.Second)

	// File watcher defaults
	v.SetDefault("server.tls.autoReload.fileWatcher.enabled", true)
	v.SetDefault("server.tls.autoReload.fileWatcher.debounceDelay", time.Second)

	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "text")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB

	// Org Configuration
	v.SetDefault("org.organizationName", "")
	v.SetDefault("org.industry", "")
	v.SetDefault("org.location", "")
	v.SetDefault("org.organizationDescription", "")

	// Output Configuration
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.standardsFile", "data/classification_standards.json")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")
	v.SetDefault("vault.secrets.mistralKey", "")
	v.SetDefault("vault.secrets.tlsCerts", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "jobkit")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.aiOperations.enabled", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackTokenUsage", true)
	v.SetDefault("observability.customMetrics.aiOperations.trackModelInfo", true)
	v.SetDefault("observability.customMetrics.businessMetrics.enabled", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackSuccessRates", true)
	v.SetDefault("observability.customMetrics.businessMetrics.trackContentSizes", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackCertExpiry", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "gemini", "mistral":
	default:
		return fmt.Errorf("invalid AI provider: %s (must be 'gemini' or 'mistral')", c.AI.Provider)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output directory is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	// Validate TLS configuration
	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}

// APIKeyForProvider returns the configured API key for a provider name
func (c *Config) APIKeyForProvider(provider string) string {
	switch provider {
	case "gemini":
		return c.AI.GeminiAPIKey
	case "mistral":
		return c.AI.MistralAPIKey
	default:
		return ""
	}
}

// ModelForProvider returns the configured default model for a provider name
func (c *Config) ModelForProvider(provider string) string {
	switch provider {
	case "gemini":
		return c.AI.GeminiModel
	case "mistral":
		return c.AI.MistralModel
	default:
		return ""
	}
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.ModelForProvider(opCfg.Provider)
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.APIKeyForProvider(opCfg.Provider)
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetGenerateConfig returns the AI configuration for job description
// generation with fallback to global config
func (c *Config) GetGenerateConfig() GenerateAIConfig {
	config := c.AI.Generate
	c.applyOperationDefaults(&config.OperationAIConfig)
	return config
}

// GetGenerateConfigFor returns the generate configuration pinned to a
// specific provider. The server runs the pipeline against every configured
// provider concurrently, so each goroutine needs its own resolved config.
func (c *Config) GetGenerateConfigFor(provider string) GenerateAIConfig {
	config := c.AI.Generate
	config.Provider = provider
	config.Model = c.ModelForProvider(provider)
	config.APIKey = c.APIKeyForProvider(provider)
	c.applyOperationDefaults(&config.OperationAIConfig)
	return config
}

// GetCompareConfig returns the AI configuration for document comparison
// with fallback to global config
func (c *Config) GetCompareConfig() OperationAIConfig {
	config := c.AI.Compare
	c.applyOperationDefaults(&config)
	return config
}

// GetGaugeConfig returns the AI configuration for revaluation assessment
// with fallback to global config
func (c *Config) GetGaugeConfig() OperationAIConfig {
	config := c.AI.Gauge
	c.applyOperationDefaults(&config)
	return config
}

// GetClassifyConfig returns the AI configuration for position classification
// with fallback to global config
func (c *Config) GetClassifyConfig() OperationAIConfig {
	config := c.AI.Classify
	c.applyOperationDefaults(&config)
	return config
}
