// Package config loads inboxai settings from the environment and optional
// .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/teemow/inboxai/internal/instrumentation"
	"github.com/teemow/inboxai/internal/llm"
	"github.com/teemow/inboxai/internal/logging"
	"github.com/teemow/inboxai/internal/prompt"
)

// EnvPrefix prefixes every environment variable, e.g. INBOXAI_SERVER_ADDR.
const EnvPrefix = "inboxai"

// ErrMissingCredentials is returned when a required secret is not set.
var ErrMissingCredentials = errors.New("missing credentials")

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

// GmailConfig holds the OAuth client and the refresh token of the account.
type GmailConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	// UnreadLimit bounds how many unread messages one request reads.
	UnreadLimit int
}

// AttachmentsConfig controls staging and extraction.
type AttachmentsConfig struct {
	// ScratchDir is where attachments are staged; empty uses the system
	// temp directory.
	ScratchDir       string
	SpreadsheetLimit int
	TableLimit       int
	OCRLanguages     []string
	TessdataPrefix   string
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Config is the root configuration.
type Config struct {
	Server      ServerConfig
	Gmail       GmailConfig
	Model       llm.Config
	Prompt      prompt.Budget
	Attachments AttachmentsConfig
	Log         logging.Config
	Metrics     MetricsConfig
	Telemetry   instrumentation.Config
}

// legacyEnv maps keys to the unprefixed variable names older deployments use.
var legacyEnv = map[string]string{
	"model.api_key":       "GROQ_API_KEY",
	"gmail.refresh_token": "GMAIL_REFRESH_TOKEN",
	"gmail.client_id":     "GOOGLE_CLIENT_ID",
	"gmail.client_secret": "GOOGLE_CLIENT_SECRET",
}

// Load reads configuration. Precedence, highest first: environment, .env
// file in the working directory or its parent, defaults.
func Load() (*Config, error) {
	loadEnvFile()
	return FromViper(viper.New())
}

// FromViper reads configuration through v, which is set up for the
// INBOXAI_ environment prefix.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := strings.ToUpper(EnvPrefix + "_" + strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	timeout, err := time.ParseDuration(v.GetString("model.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid model.timeout: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr:        v.GetString("server.addr"),
			CORSOrigins: parseList(v.GetString("server.cors_origins")),
		},
		Gmail: GmailConfig{
			ClientID:     v.GetString("gmail.client_id"),
			ClientSecret: v.GetString("gmail.client_secret"),
			RefreshToken: v.GetString("gmail.refresh_token"),
			UnreadLimit:  v.GetInt("gmail.unread_limit"),
		},
		Model: llm.Config{
			APIKey:             v.GetString("model.api_key"),
			BaseURL:            v.GetString("model.base_url"),
			Model:              v.GetString("model.name"),
			SummaryTemperature: v.GetFloat64("model.summary_temperature"),
			CommandTemperature: v.GetFloat64("model.command_temperature"),
			MaxTokens:          v.GetInt64("model.max_tokens"),
			PhrasingMaxTokens:  v.GetInt64("model.phrasing_max_tokens"),
			Timeout:            timeout,
		},
		Prompt: prompt.Budget{
			Body:         v.GetInt("prompt.body_budget"),
			Attachments:  v.GetInt("prompt.attachment_budget"),
			CategoryBody: v.GetInt("prompt.category_budget"),
		},
		Attachments: AttachmentsConfig{
			ScratchDir:       v.GetString("attachments.scratch_dir"),
			SpreadsheetLimit: v.GetInt("attachments.spreadsheet_limit"),
			TableLimit:       v.GetInt("attachments.table_limit"),
			OCRLanguages:     parseList(v.GetString("attachments.ocr_languages")),
			TessdataPrefix:   v.GetString("attachments.tessdata_prefix"),
		},
		Log: logging.Config{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
			Compress:   v.GetBool("log.compress"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Addr:    v.GetString("metrics.addr"),
		},
		Telemetry: instrumentation.Config{
			ServiceName:       v.GetString("telemetry.service_name"),
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsExporter:   v.GetString("telemetry.metrics_exporter"),
			TracingExporter:   v.GetString("telemetry.tracing_exporter"),
			OTLPEndpoint:      v.GetString("telemetry.otlp_endpoint"),
			OTLPInsecure:      v.GetBool("telemetry.otlp_insecure"),
			TraceSamplingRate: v.GetFloat64("telemetry.sampling_rate"),
			DetailedLabels:    v.GetBool("telemetry.detailed_labels"),
			Audit: instrumentation.AuditLoggingConfig{
				Enabled:    v.GetBool("audit.enabled"),
				IncludePII: v.GetBool("audit.include_pii"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	model := llm.DefaultConfig()
	budget := prompt.DefaultBudget()
	telemetry := instrumentation.DefaultConfig()

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.cors_origins", "*")

	v.SetDefault("gmail.unread_limit", 10)

	v.SetDefault("model.base_url", model.BaseURL)
	v.SetDefault("model.name", model.Model)
	v.SetDefault("model.summary_temperature", model.SummaryTemperature)
	v.SetDefault("model.command_temperature", model.CommandTemperature)
	v.SetDefault("model.max_tokens", model.MaxTokens)
	v.SetDefault("model.phrasing_max_tokens", model.PhrasingMaxTokens)
	v.SetDefault("model.timeout", model.Timeout.String())

	v.SetDefault("prompt.body_budget", budget.Body)
	v.SetDefault("prompt.attachment_budget", budget.Attachments)
	v.SetDefault("prompt.category_budget", budget.CategoryBody)

	v.SetDefault("attachments.scratch_dir", "")
	v.SetDefault("attachments.spreadsheet_limit", 3000)
	v.SetDefault("attachments.table_limit", 3000)
	v.SetDefault("attachments.ocr_languages", "eng")
	v.SetDefault("attachments.tessdata_prefix", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatText)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("log.compress", true)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9091")

	v.SetDefault("telemetry.service_name", telemetry.ServiceName)
	v.SetDefault("telemetry.enabled", telemetry.Enabled)
	v.SetDefault("telemetry.metrics_exporter", telemetry.MetricsExporter)
	v.SetDefault("telemetry.tracing_exporter", telemetry.TracingExporter)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_insecure", false)
	v.SetDefault("telemetry.sampling_rate", telemetry.TraceSamplingRate)
	v.SetDefault("telemetry.detailed_labels", false)
	v.SetDefault("audit.enabled", telemetry.Audit.Enabled)
	v.SetDefault("audit.include_pii", telemetry.Audit.IncludePII)
}

// Validate checks values that have no usable interpretation.
func (c *Config) Validate() error {
	if c.Gmail.UnreadLimit <= 0 {
		return fmt.Errorf("gmail.unread_limit must be positive, got %d", c.Gmail.UnreadLimit)
	}
	if c.Prompt.Body <= 0 || c.Prompt.Attachments <= 0 || c.Prompt.CategoryBody <= 0 {
		return fmt.Errorf("prompt budgets must be positive")
	}
	if c.Attachments.SpreadsheetLimit < 0 || c.Attachments.TableLimit < 0 {
		return fmt.Errorf("attachment limits must not be negative")
	}
	switch c.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", logging.FormatText, logging.FormatJSON, c.Log.Format)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// RequireGmail reports which Gmail secrets are missing.
func (c *Config) RequireGmail() error {
	var missing []string
	if c.Gmail.ClientID == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if c.Gmail.ClientSecret == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if c.Gmail.RefreshToken == "" {
		missing = append(missing, "GMAIL_REFRESH_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// RequireModel reports whether the model API key is missing.
func (c *Config) RequireModel() error {
	if c.Model.APIKey == "" {
		return fmt.Errorf("%w: GROQ_API_KEY", ErrMissingCredentials)
	}
	return nil
}

func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile loads .env from the working directory, or from its parent.
// Variables already set in the environment win.
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}
	parent := filepath.Join("..", ".env")
	if _, err := os.Stat(parent); err == nil {
		_ = godotenv.Load(parent)
	}
}
