package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Kiiichu/stress-estimator/internal/domain/ruleset"
	"github.com/Kiiichu/stress-estimator/pkg/kafka"
)

// Config holds all configuration for the prediction service.
type Config struct {
	HTTPPort    string
	GRPCPort    string
	ModelPath   string
	RuleSet     string
	Environment string
	LogLevel    string
	LogFormat   string

	CORSAllowedOrigins []string

	KafkaBrokers      []string
	KafkaTopic        string
	KafkaSASLMech     string
	KafkaSASLUser     string
	KafkaSASLPassword string
	KafkaTLS          bool

	EventQueueSize      int
	EventPublishTimeout time.Duration

	OTLPEndpoint    string
	OTLPInsecure    bool
	TraceSampleRate float64

	GRPCTLSCertFile string
	GRPCTLSKeyFile  string
	GRPCReflection  bool
	// GRPCDevTLS generates a self-signed CA and server certificate into
	// GRPCDevCertDir at startup. Development only.
	GRPCDevTLS     bool
	GRPCDevCertDir string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8000"),
		GRPCPort:    getEnv("GRPC_PORT", "8001"),
		ModelPath:   getEnv("MODEL_PATH", "stress_model.json"),
		RuleSet:     getEnv("STRESS_RULESET", string(ruleset.RevB)),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://127.0.0.1:7860", "http://localhost:7860"}),

		KafkaBrokers:      kafka.ParseBrokers(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "stress.predictions"),
		KafkaSASLMech:     getEnv("KAFKA_SASL_MECHANISM", ""),
		KafkaSASLUser:     getEnv("KAFKA_SASL_USERNAME", ""),
		KafkaSASLPassword: getEnv("KAFKA_SASL_PASSWORD", ""),
		KafkaTLS:          getEnvBool("KAFKA_TLS", false),

		EventQueueSize:      getEnvInt("EVENT_QUEUE_SIZE", 256),
		EventPublishTimeout: time.Duration(getEnvInt("EVENT_PUBLISH_TIMEOUT_MS", 2000)) * time.Millisecond,

		OTLPEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		TraceSampleRate: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),

		GRPCTLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		GRPCReflection:  getEnvBool("GRPC_REFLECTION", true),
		GRPCDevTLS:      getEnvBool("GRPC_DEV_TLS", false),
		GRPCDevCertDir:  getEnv("GRPC_DEV_CERT_DIR", "certs"),
	}
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ruleset.Lookup(c.RuleSet); err != nil {
		errs = append(errs, fmt.Errorf("STRESS_RULESET: %w", err))
	}
	if c.ModelPath == "" {
		errs = append(errs, errors.New("MODEL_PATH must not be empty"))
	}
	for name, port := range map[string]string{"HTTP_PORT": c.HTTPPort, "GRPC_PORT": c.GRPCPort} {
		if err := validatePort(name, port); err != nil {
			errs = append(errs, err)
		}
	}
	if c.HTTPPort == c.GRPCPort {
		errs = append(errs, fmt.Errorf("HTTP_PORT and GRPC_PORT must differ, both are %s", c.HTTPPort))
	}
	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.GRPCDevTLS {
		if c.Environment != "development" {
			errs = append(errs, fmt.Errorf("GRPC_DEV_TLS is only allowed in development, ENVIRONMENT is %q", c.Environment))
		}
		if c.GRPCTLSCertFile != "" {
			errs = append(errs, errors.New("GRPC_DEV_TLS cannot be combined with GRPC_TLS_CERT_FILE"))
		}
		if c.GRPCDevCertDir == "" {
			errs = append(errs, errors.New("GRPC_DEV_CERT_DIR must not be empty when GRPC_DEV_TLS is set"))
		}
	}
	if c.KafkaEnabled() && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC must not be empty when KAFKA_BROKERS is set"))
	}
	if c.EventQueueSize < 1 {
		errs = append(errs, fmt.Errorf("EVENT_QUEUE_SIZE must be positive, got %d", c.EventQueueSize))
	}
	if c.EventPublishTimeout <= 0 {
		errs = append(errs, fmt.Errorf("EVENT_PUBLISH_TIMEOUT_MS must be positive, got %s", c.EventPublishTimeout))
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		errs = append(errs, fmt.Errorf("OTEL_TRACES_SAMPLER_ARG must be in [0, 1], got %v", c.TraceSampleRate))
	}

	return errors.Join(errs...)
}

func validatePort(name, port string) error {
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%s: invalid port %q", name, port)
	}
	return nil
}

// GRPCAddress returns the full gRPC listen address.
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf(":%s", c.GRPCPort)
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.HTTPPort)
}

// GRPCTLSEnabled reports whether the gRPC server should serve TLS.
func (c *Config) GRPCTLSEnabled() bool {
	return c.GRPCTLSCertFile != "" && c.GRPCTLSKeyFile != ""
}

// KafkaEnabled reports whether prediction events go to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Kafka returns the Kafka client configuration.
func (c *Config) Kafka() kafka.Config {
	return kafka.Config{
		Brokers:       c.KafkaBrokers,
		ClientID:      "stressd",
		TLS:           c.KafkaTLS,
		SASLEnabled:   c.KafkaSASLUser != "",
		SASLMechanism: c.KafkaSASLMech,
		SASLUsername:  c.KafkaSASLUser,
		SASLPassword:  c.KafkaSASLPassword,
	}
}

// UIConfig holds configuration for the slider frontend.
type UIConfig struct {
	UIPort     string
	APIURL     string
	LogLevel   string
	LogFormat  string
	APITimeout time.Duration
	RateLimit  int // requests per second per client
}

// LoadUI reads frontend configuration from environment variables.
func LoadUI() *UIConfig {
	return &UIConfig{
		UIPort:     getEnv("UI_PORT", "7860"),
		APIURL:     strings.TrimRight(getEnv("API_URL", "http://127.0.0.1:8000"), "/"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		APITimeout: time.Duration(getEnvInt("API_TIMEOUT_SECONDS", 10)) * time.Second,
		RateLimit:  getEnvInt("UI_RATE_LIMIT", 20),
	}
}

// Validate checks the frontend configuration for values it cannot serve with.
func (c *UIConfig) Validate() error {
	var errs []error

	if err := validatePort("UI_PORT", c.UIPort); err != nil {
		errs = append(errs, err)
	}
	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_URL must be an absolute http(s) URL, got %q", c.APIURL))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("API_TIMEOUT_SECONDS must be positive, got %s", c.APITimeout))
	}
	if c.RateLimit < 1 {
		errs = append(errs, fmt.Errorf("UI_RATE_LIMIT must be at least 1, got %d", c.RateLimit))
	}

	return errors.Join(errs...)
}

// HTTPAddress returns the full HTTP listen address of the frontend.
func (c *UIConfig) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.UIPort)
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

// getEnvList splits a comma-separated variable; an empty value yields the default.
func getEnvList(key string, defaultVal []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
