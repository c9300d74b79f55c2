package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Staging StagingConfig
	Output  OutputConfig
	Interp  InterpConfig
	Upload  UploadConfig
	CORS    CORSConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StagingConfig holds per-request scratch directory settings.
type StagingConfig struct {
	Dir    string `mapstructure:"dir"`
	Retain bool   `mapstructure:"retain"`
}

// OutputConfig holds generated artifact settings. PublicBaseURL is the
// externally reachable address the overlay URL is built from.
type OutputConfig struct {
	Dir           string `mapstructure:"dir"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// InterpConfig holds external interpolation process settings.
type InterpConfig struct {
	Command string        `mapstructure:"command"`
	Script  string        `mapstructure:"script"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Args returns the leading process arguments before the positional paths.
func (c *InterpConfig) Args() []string {
	if c.Script == "" {
		return nil
	}
	return []string{c.Script}
}

// UploadConfig holds upload validation settings.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// MaxBytes returns the upload size ceiling in bytes.
func (u *UploadConfig) MaxBytes() int64 {
	return u.MaxFileSizeMB * 1024 * 1024
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SOILVIZ_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SOILVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Staging defaults
	v.SetDefault("staging.dir", "uploads")
	v.SetDefault("staging.retain", false)

	// Output defaults
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.public_base_url", "http://localhost:8080")

	// Interpolation process defaults
	v.SetDefault("interp.command", "python3")
	v.SetDefault("interp.script", "scripts/interpolate.py")
	v.SetDefault("interp.timeout", "90s")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 20)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "SOILVIZ_SERVER_PORT",
		"server.read_timeout":     "SOILVIZ_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "SOILVIZ_SERVER_WRITE_TIMEOUT",
		"server.environment":      "SOILVIZ_SERVER_ENVIRONMENT",
		"staging.dir":             "SOILVIZ_STAGING_DIR",
		"staging.retain":          "SOILVIZ_STAGING_RETAIN",
		"output.dir":              "SOILVIZ_OUTPUT_DIR",
		"output.public_base_url":  "SOILVIZ_OUTPUT_PUBLIC_BASE_URL",
		"interp.command":          "SOILVIZ_INTERP_COMMAND",
		"interp.script":           "SOILVIZ_INTERP_SCRIPT",
		"interp.timeout":          "SOILVIZ_INTERP_TIMEOUT",
		"upload.max_file_size_mb": "SOILVIZ_UPLOAD_MAX_FILE_SIZE_MB",
		"cors.allowed_origins":    "SOILVIZ_CORS_ALLOWED_ORIGINS",
		"log.level":               "SOILVIZ_LOG_LEVEL",
		"log.format":              "SOILVIZ_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SOILVIZ_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SOILVIZ_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Staging = StagingConfig{
		Dir:    v.GetString("staging.dir"),
		Retain: v.GetBool("staging.retain"),
	}
	cfg.Output = OutputConfig{
		Dir:           v.GetString("output.dir"),
		PublicBaseURL: strings.TrimRight(v.GetString("output.public_base_url"), "/"),
	}
	cfg.Interp = InterpConfig{
		Command: v.GetString("interp.command"),
		Script:  v.GetString("interp.script"),
		Timeout: v.GetDuration("interp.timeout"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
