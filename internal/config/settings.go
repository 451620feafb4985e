package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Bool is a boolean setting that also accepts yes/no, on/off and y/n, in any
// case.
type Bool bool

// Decode implements envconfig.Decoder.
func (b *Bool) Decode(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "t", "true", "y", "yes", "on":
		*b = true
	case "0", "f", "false", "n", "no", "off":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %q", value)
	}
	return nil
}

// Settings holds every environment-driven knob of the service. Keys are the
// exact, case-sensitive environment variable names.
type Settings struct {
	// Application
	AppName     string `envconfig:"APP_NAME" default:"FastAPI Microservice" json:"APP_NAME"`
	Debug       Bool   `envconfig:"DEBUG" default:"true" json:"DEBUG"`
	APIV1Prefix string `envconfig:"API_V1_PREFIX" default:"/api/v1" validate:"startswith=/" json:"API_V1_PREFIX"`

	// Security
	SecretKey                string `envconfig:"SECRET_KEY" validate:"required" json:"SECRET_KEY"`
	Algorithm                string `envconfig:"ALGORITHM" default:"HS256" validate:"oneof=HS256 HS384 HS512" json:"ALGORITHM"`
	AccessTokenExpireMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"30" validate:"gt=0" json:"ACCESS_TOKEN_EXPIRE_MINUTES"`

	// CORS, comma separated. Use AllowedOrigins to read it.
	AllowedOriginsList string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:8000" json:"ALLOWED_ORIGINS"`

	// Backing stores
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"required" json:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL" validate:"required" json:"REDIS_URL"`

	// Runtime
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:"0.0.0.0:8000" json:"HTTP_ADDR"`
	MetricsAddr     string        `envconfig:"METRICS_ADDR" default:"0.0.0.0:9090" json:"METRICS_ADDR"`
	GRPCAddr        string        `envconfig:"GRPC_ADDR" json:"GRPC_ADDR"`
	LogLevelName    string        `envconfig:"LOG_LEVEL" json:"LOG_LEVEL"`
	LogFile         string        `envconfig:"LOG_FILE" json:"LOG_FILE"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" json:"SHUTDOWN_TIMEOUT"`
}

// AllowedOrigins splits ALLOWED_ORIGINS on commas and trims each entry.
// Order is preserved; empty entries (trailing or doubled commas) are dropped.
func (s Settings) AllowedOrigins() []string {
	parts := strings.Split(s.AllowedOriginsList, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		origins = append(origins, p)
	}
	return origins
}

// AccessTokenTTL returns ACCESS_TOKEN_EXPIRE_MINUTES as a duration.
func (s Settings) AccessTokenTTL() time.Duration {
	return time.Duration(s.AccessTokenExpireMinutes) * time.Minute
}

// LogLevel returns LOG_LEVEL, falling back to "debug" when DEBUG is set and
// "info" otherwise.
func (s Settings) LogLevel() string {
	if s.LogLevelName != "" {
		return s.LogLevelName
	}
	if s.Debug {
		return "debug"
	}
	return "info"
}

const redactedValue = "********"

// Redacted returns a copy safe to print: the secret key is masked and
// passwords are stripped from the connection URLs.
func (s Settings) Redacted() Settings {
	out := s
	if out.SecretKey != "" {
		out.SecretKey = redactedValue
	}
	out.DatabaseURL = redactURL(out.DatabaseURL)
	out.RedisURL = redactURL(out.RedisURL)
	return out
}

func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return redactedValue
	}
	return u.Redacted()
}
