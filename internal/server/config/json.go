package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sarkie/sarkie-backend/internal/flagx"
	"github.com/sarkie/sarkie-backend/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Duration
// fields accept "10m" style strings or integer nanoseconds. Only fields
// present with a non-zero value override the current settings.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	VerificationCodeTTL         timex.Duration `json:"verification_code_ttl"`
	OpenAIBaseURL               string         `json:"openai_base_url"`
	OpenAIModel                 string         `json:"openai_model"`
	CompletionTimeout           timex.Duration `json:"completion_timeout"`
	CompletionMaxAttempts       int            `json:"completion_max_attempts"`
	CompletionInitialBackoff    timex.Duration `json:"completion_initial_backoff"`
	ChatHistoryLimit            int            `json:"chat_history_limit"`
	MemoryMarker                string         `json:"memory_marker"`
	MailTransport               string         `json:"mail_transport"`
	SMTPHost                    string         `json:"smtp_host"`
	SMTPPort                    int            `json:"smtp_port"`
	MailFrom                    string         `json:"mail_from"`
	SESRegion                   string         `json:"ses_region"`
	AllowedOrigins              []string       `json:"allowed_origins"`
	ChatRateLimit               float64        `json:"chat_rate_limit"`
	ChatRateBurst               int            `json:"chat_rate_burst"`
	StaticDir                   string         `json:"static_dir"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
}

// parseJson loads the file named by -c / -config, if any, onto config.
// Secrets other than the JWT key (API keys, mail passwords) are expected
// from the environment and are not read from JSON.
//
// If the file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.VerificationCodeTTL, c.VerificationCodeTTL)
	setString(&config.OpenAIBaseURL, c.OpenAIBaseURL)
	setString(&config.OpenAIModel, c.OpenAIModel)
	setDuration(&config.CompletionTimeout, c.CompletionTimeout)
	setInt(&config.CompletionMaxAttempts, c.CompletionMaxAttempts)
	setDuration(&config.CompletionInitialBackoff, c.CompletionInitialBackoff)
	setInt(&config.ChatHistoryLimit, c.ChatHistoryLimit)
	setString(&config.MemoryMarker, c.MemoryMarker)
	setString(&config.MailTransport, c.MailTransport)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.SESRegion, c.SESRegion)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	if c.ChatRateLimit > 0 {
		config.ChatRateLimit = c.ChatRateLimit
	}
	setInt(&config.ChatRateBurst, c.ChatRateBurst)
	setString(&config.StaticDir, c.StaticDir)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
