package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	S3       S3Config       `yaml:"s3"`
	Logger   LoggerConfig   `yaml:"logger"`
	Site     SiteConfig     `yaml:"site"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	URL         string        `yaml:"url"`
	ProgressTTL time.Duration `yaml:"progress_ttl"`
}

type AuthConfig struct {
	// SecretKey signs session JWTs, invite tokens and activation tokens.
	// SecretKeyFallbacks keeps previously issued activation tokens valid
	// across a key rotation.
	SecretKey          string        `yaml:"secret_key"`
	SecretKeyFallbacks []string      `yaml:"secret_key_fallbacks"`
	SessionTimeout     time.Duration `yaml:"session_timeout"`
	ActivationTimeout  time.Duration `yaml:"activation_timeout"`
	InviteTimeout      time.Duration `yaml:"invite_timeout"`
}

type EmailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	UseTLS   bool   `yaml:"use_tls"`
	From     string `yaml:"from"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

type SiteConfig struct {
	// URL is the externally reachable base URL used in emailed links
	URL string `yaml:"url"`
}

// Load reads the yaml file (when present) and applies environment overrides.
// Env names follow the original deployment: DATABASE_URL, SECRET_KEY,
// EMAIL_HOST/PORT/USER/PASS, ACTIVATION_TOKEN_TIMEOUT, INVITE_TOKEN_TIMEOUT.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "release",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			ProgressTTL: 5 * time.Minute,
		},
		Auth: AuthConfig{
			SessionTimeout:    24 * time.Hour,
			ActivationTimeout: 24 * time.Hour,
			InviteTimeout:     7 * 24 * time.Hour,
		},
		Email: EmailConfig{
			Host:   "smtp.gmail.com",
			Port:   587,
			UseTLS: true,
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}

	// Load from yaml file if exists
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Override with environment variables
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if debug := os.Getenv("DEBUG"); debug != "" {
		if on, err := strconv.ParseBool(debug); err == nil && on {
			cfg.Server.Mode = "debug"
			cfg.Logger.Level = "debug"
		}
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitAndTrim(origins)
	}
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.Logger.Level = logLevel
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		cfg.Auth.SecretKey = secret
	}
	if fallbacks := os.Getenv("SECRET_KEY_FALLBACKS"); fallbacks != "" {
		cfg.Auth.SecretKeyFallbacks = splitAndTrim(fallbacks)
	}
	if timeout := os.Getenv("ACTIVATION_TOKEN_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			cfg.Auth.ActivationTimeout = time.Duration(secs) * time.Second
		}
	}
	if timeout := os.Getenv("INVITE_TOKEN_TIMEOUT"); timeout != "" {
		if secs, err := strconv.Atoi(timeout); err == nil {
			cfg.Auth.InviteTimeout = time.Duration(secs) * time.Second
		}
	}
	if host := os.Getenv("EMAIL_HOST"); host != "" {
		cfg.Email.Host = host
	}
	if port := os.Getenv("EMAIL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Email.Port = p
		}
	}
	if user := os.Getenv("EMAIL_USER"); user != "" {
		cfg.Email.Username = user
		if cfg.Email.From == "" {
			cfg.Email.From = user
		}
	}
	if pass := os.Getenv("EMAIL_PASS"); pass != "" {
		cfg.Email.Password = pass
	}
	if useTLS := os.Getenv("EMAIL_USE_TLS"); useTLS != "" {
		if on, err := strconv.ParseBool(useTLS); err == nil {
			cfg.Email.UseTLS = on
		}
	}
	if siteURL := os.Getenv("SITE_URL"); siteURL != "" {
		cfg.Site.URL = siteURL
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.S3.Endpoint = endpoint
	}
	if accessKey := os.Getenv("S3_ACCESS_KEY"); accessKey != "" {
		cfg.S3.AccessKey = accessKey
	}
	if secretKey := os.Getenv("S3_SECRET_KEY"); secretKey != "" {
		cfg.S3.SecretKey = secretKey
	}

	if cfg.Auth.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is required")
	}

	return cfg, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
